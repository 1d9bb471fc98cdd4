package api

import "time"

// The platform API speaks Mongo-flavoured JSON; field names here match it
// exactly (`_id`, `disputeId`, populated `userId` references, ...).

// User is a platform account as listed by the admin API.
type User struct {
	ID            string    `json:"_id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phoneNumber,omitempty"`
	IsAdmin       bool      `json:"isAdmin,omitempty"`
	Bank          string    `json:"bank,omitempty"`
	AccountNumber string    `json:"accountNumber,omitempty"`
	DateOfBirth   time.Time `json:"dateOfBirth,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// FullName joins the user's names for display.
func (u User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return "Unknown"
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Participant is a transaction party with its side of the trade.
type Participant struct {
	User *User  `json:"userId,omitempty"`
	Role string `json:"role"` // buyer or seller
}

// ProductDetails describes what a transaction is for.
type ProductDetails struct {
	Description string `json:"description,omitempty"`
}

// Transaction is an escrow transaction as listed by the admin API.
// Creator and Participants arrive populated (full user documents).
type Transaction struct {
	ID               string         `json:"_id"`
	Reference        string         `json:"reference,omitempty"`
	Status           string         `json:"status"`
	PaymentAmount    float64        `json:"paymentAmount,omitempty"`
	PaymentName      string         `json:"paymentName,omitempty"`
	SelectedUserType string         `json:"selectedUserType,omitempty"` // creator's role
	ProductDetails   ProductDetails `json:"productDetails,omitempty"`
	Creator          *User          `json:"userId,omitempty"`
	Participants     []Participant  `json:"participants,omitempty"`
	CreatedAt        time.Time      `json:"createdAt,omitempty"`
}

// WithdrawalMetadata carries processing details for a withdrawal request.
type WithdrawalMetadata struct {
	PaidDate time.Time `json:"paidDate,omitempty"`
}

// Withdrawal is a payout request awaiting manual settlement.
type Withdrawal struct {
	Reference     string             `json:"reference"`
	Status        string             `json:"status"`
	Amount        float64            `json:"amount,omitempty"`
	Bank          string             `json:"bank,omitempty"`
	AccountNumber string             `json:"accountNumber,omitempty"`
	Metadata      WithdrawalMetadata `json:"metadata,omitempty"`
	CreatedAt     time.Time          `json:"createdAt,omitempty"`
}

// Evidence is a file attached to a dispute.
type Evidence struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

// Dispute is a disagreement over a transaction. Transaction arrives
// populated with its participants.
type Dispute struct {
	ID          string       `json:"_id"`
	Transaction *Transaction `json:"transactionId,omitempty"`
	Status      string       `json:"status"` // Open, Resolved, Cancelled
	Reason      string       `json:"reason,omitempty"`
	Resolution  string       `json:"resolution,omitempty"`
	Evidence    []Evidence   `json:"evidence,omitempty"`
	CreatedAt   time.Time    `json:"createdAt,omitempty"`
}

// MessageAuthor is the populated sender reference on a chat message.
type MessageAuthor struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Message is a dispute chat message as the REST API returns it. The push
// channel carries the same message with a bare author id instead of a
// populated document.
type Message struct {
	ID        string         `json:"_id"`
	DisputeID string         `json:"disputeId"`
	Author    *MessageAuthor `json:"userId,omitempty"` // nil for admin/system messages
	UserRole  string         `json:"userRole"`
	Body      string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
}

// DashboardStats is the aggregate snapshot behind the dashboard command.
type DashboardStats struct {
	UserCount              int     `json:"userCount"`
	UserCountLastMonth     int     `json:"userCountLastMonth"`
	TransactionCount       int     `json:"transactionCount"`
	PendingKYC             int     `json:"pendingKYC"`
	PendingKYCLastMonth    int     `json:"pendingKYCLastMonth"`
	PendingWithdrawals     float64 `json:"pendingWithdrawals"`
}

// CustomerFinancials is the server-side reconciliation of a customer's
// balances; the console renders it verbatim.
type CustomerFinancials struct {
	CurrentBalance               float64 `json:"currentBalance"`
	TheoreticalBalance           float64 `json:"theoreticalBalance"`
	AvailableBalance             float64 `json:"availableBalance"`
	BalanceMismatch              bool    `json:"balanceMismatch"`
	LockedFunds                  float64 `json:"lockedFunds"`
	TotalDeposited               float64 `json:"totalDeposited"`
	TotalWithdrawn               float64 `json:"totalWithdrawn"`
	TotalPendingWithdrawals      float64 `json:"totalPendingWithdrawals"`
	TotalEarnedAsSeller          float64 `json:"totalEarnedAsSeller"`
	TotalSpentAsBuyer            float64 `json:"totalSpentAsBuyer"`
	TotalBuyerTransactions       int     `json:"totalBuyerTransactions"`
	CompletedBuyerTransactions   int     `json:"completedBuyerTransactions"`
	TotalSellerTransactions      int     `json:"totalSellerTransactions"`
	CompletedSellerTransactions  int     `json:"completedSellerTransactions"`
	WithdrawalsValidation        string  `json:"withdrawalsValidation,omitempty"`
}

// Customer is the full per-customer view returned by the lookup endpoint.
type Customer struct {
	User           User               `json:"user"`
	Financials     CustomerFinancials `json:"financials"`
	StatsUpdatedAt time.Time          `json:"statsUpdatedAt,omitempty"`
}
