package asaas

// Customer is the gateway representation of a billable person/company.
type Customer struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email,omitempty"`
	CpfCnpj           string `json:"cpfCnpj,omitempty"`
	MobilePhone       string `json:"mobilePhone,omitempty"`
	ExternalReference string `json:"externalReference,omitempty"`
	Deleted           bool   `json:"deleted,omitempty"`
}

// CreateCustomerRequest is the payload for POST /customers.
type CreateCustomerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email,omitempty"`
	CpfCnpj              string `json:"cpfCnpj"`
	MobilePhone          string `json:"mobilePhone,omitempty"`
	ExternalReference    string `json:"externalReference,omitempty"`
	NotificationDisabled bool   `json:"notificationDisabled,omitempty"`
}

// Subscription is the gateway representation of a recurring charge plan.
type Subscription struct {
	ID                string  `json:"id"`
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	NextDueDate       string  `json:"nextDueDate,omitempty"`
	Cycle             string  `json:"cycle,omitempty"`
	Status            string  `json:"status,omitempty"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`
	Deleted           bool    `json:"deleted,omitempty"`
}

// CreateSubscriptionRequest is the payload for POST /subscriptions.
// NextDueDate is a calendar date in YYYY-MM-DD.
type CreateSubscriptionRequest struct {
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	NextDueDate       string  `json:"nextDueDate"`
	Cycle             string  `json:"cycle,omitempty"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`
}

// Payment is the gateway representation of one charge.
type Payment struct {
	ID                    string  `json:"id"`
	Customer              string  `json:"customer"`
	Subscription          string  `json:"subscription,omitempty"`
	BillingType           string  `json:"billingType"`
	Value                 float64 `json:"value"`
	NetValue              float64 `json:"netValue,omitempty"`
	Status                string  `json:"status,omitempty"`
	DueDate               string  `json:"dueDate,omitempty"`
	Description           string  `json:"description,omitempty"`
	InvoiceURL            string  `json:"invoiceUrl,omitempty"`
	BankSlipURL           string  `json:"bankSlipUrl,omitempty"`
	TransactionReceiptURL string  `json:"transactionReceiptUrl,omitempty"`
	PixTransaction        string  `json:"pixTransaction,omitempty"`
	ExternalReference     string  `json:"externalReference,omitempty"`
	Deleted               bool    `json:"deleted,omitempty"`
}

// CreatePaymentRequest is the payload for POST /payments.
type CreatePaymentRequest struct {
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	DueDate           string  `json:"dueDate"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`
}

// PixQrCode is the response of GET /payments/{id}/pixQrCode.
type PixQrCode struct {
	Success        bool   `json:"success"`
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate"`
}

// DeleteResponse is the generic response of DELETE operations.
type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// CustomerList / SubscriptionList / PaymentList carry the gateway's
// pagination envelope.
type CustomerList struct {
	TotalCount int        `json:"totalCount"`
	HasMore    bool       `json:"hasMore"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
	Data       []Customer `json:"data"`
}

type SubscriptionList struct {
	TotalCount int            `json:"totalCount"`
	HasMore    bool           `json:"hasMore"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
	Data       []Subscription `json:"data"`
}

type PaymentList struct {
	TotalCount int       `json:"totalCount"`
	HasMore    bool      `json:"hasMore"`
	Limit      int       `json:"limit"`
	Offset     int       `json:"offset"`
	Data       []Payment `json:"data"`
}
