package event

import "github.com/llNABSll/customer-api/internal/model"

// Source identifies this service in every published event
const Source = "customer-api"

const (
	// TypeCustomerCreated is emitted after customer has been created
	TypeCustomerCreated = "customer.created"
	// TypeCustomerUpdated is emitted after customer has been updated
	TypeCustomerUpdated = "customer.updated"
	// TypeCustomerDeleted is emitted after customer has been deleted
	TypeCustomerDeleted = "customer.deleted"
)

// Data is projection of the affected customer carried by the event
type Data struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Company *string `json:"company,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

// Event is domain event describing committed customer mutation. Events are
// ephemeral values, they are never persisted and carry no identity beyond
// their type and payload
type Event struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Data   Data   `json:"data"`
}

// New builds new event of provided type for affected customer
func New(eventType string, c *model.Customer) Event {
	return Event{
		Type:   eventType,
		Source: Source,
		Data: Data{
			ID:      c.ID,
			Name:    c.Name,
			Email:   c.Email,
			Company: c.Company,
			Phone:   c.Phone,
		},
	}
}
