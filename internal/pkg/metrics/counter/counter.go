package counter

import (
	"context"
	"strconv"

	"github.com/jpmoura/asaasbridge/internal/pkg/cache"
)

const webhookEventsKey = "billing:counters:webhook_events"

// AddWebhookEvent increments the per-category counter for a processed
// webhook notification in Redis.
func AddWebhookEvent(category string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, webhookEventsKey, category, 1).Err()
}

// WebhookEventCounts returns the per-category webhook counters.
func WebhookEventCounts() (map[string]int64, error) {
	ctx := context.Background()
	raw, err := cache.GetClient().HGetAll(ctx, webhookEventsKey).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(raw))
	for category, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		counts[category] = n
	}
	return counts, nil
}
