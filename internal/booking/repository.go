package booking

import "context"

// Repository defines the storage interface for the service catalog, the
// customer directory, the employee roster and the waiting queue.
type Repository interface {
	// SaveService creates a service or updates the one with the same name.
	SaveService(ctx context.Context, s Service) error

	// GetService retrieves a service by name.
	// Returns ErrServiceNotFound if no such service exists.
	GetService(ctx context.Context, name string) (*Service, error)

	// ListServices returns the catalog ordered by name.
	ListServices(ctx context.Context) ([]Service, error)

	// DeleteService removes a service by name.
	DeleteService(ctx context.Context, name string) error

	// SaveCustomer records a customer unless one with the same name and
	// phone exists.
	// Returns true if a new directory entry was created.
	SaveCustomer(ctx context.Context, c *Customer) (bool, error)

	// ListCustomers returns the directory ordered by last then first name.
	ListCustomers(ctx context.Context) ([]*Customer, error)

	// SearchCustomers returns customers whose name or phone contains query.
	SearchCustomers(ctx context.Context, query string) ([]*Customer, error)

	// AddEmployee appends an employee to the roster.
	// Returns ErrDuplicateEmployee if the name is taken.
	AddEmployee(ctx context.Context, name string) (*Employee, error)

	// ListEmployees returns the roster in insertion order.
	ListEmployees(ctx context.Context) ([]Employee, error)

	// RemoveEmployee removes an employee by name.
	RemoveEmployee(ctx context.Context, name string) error

	// Enqueue adds a booking to the waiting queue.
	Enqueue(ctx context.Context, b *Booking) (*QueueEntry, error)

	// ListQueue returns waiting bookings, oldest first.
	ListQueue(ctx context.Context) ([]*QueueEntry, error)

	// GetQueueEntry retrieves a waiting booking by queue ID.
	GetQueueEntry(ctx context.Context, id int64) (*QueueEntry, error)

	// Dequeue removes a waiting booking by queue ID.
	Dequeue(ctx context.Context, id int64) error

	// Close releases any resources held by the repository.
	Close() error
}
