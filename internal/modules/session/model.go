// README: Snapshot shapes the client session layer caches between screens.
package session

import (
	"time"

	"waybill/internal/types"
)

type User struct {
	ID                 types.ID  `json:"id"`
	Role               string    `json:"role"`
	Name               string    `json:"name,omitempty"`
	VerificationStatus string    `json:"verificationStatus,omitempty"`
	VehicleType        string    `json:"vehicleType,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type Order struct {
	ID        types.ID    `json:"id"`
	Reference string      `json:"reference"`
	ClientID  types.ID    `json:"clientId"`
	Status    string      `json:"status"`
	Total     types.Money `json:"total"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type Statistics struct {
	TotalDeliveries     int         `json:"totalDeliveries"`
	CompletedDeliveries int         `json:"completedDeliveries"`
	PendingDeliveries   int         `json:"pendingDeliveries"`
	Rating              float64     `json:"rating"`
	Earnings            types.Money `json:"earnings"`
}
