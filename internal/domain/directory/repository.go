package directory

import "context"

// Repository: los Create los usan el seed y el alta desde administración.
// Los adapters devuelven directory.ErrNotFound si no hay fila.
type Repository interface {
	CreatePatient(ctx context.Context, p Patient) error
	GetPatient(ctx context.Context, id string) (Patient, error)
	// EachPatient recorre en orden de inserción hasta que fn devuelva false.
	EachPatient(ctx context.Context, fn func(Patient) bool) error

	CreateAccount(ctx context.Context, a UserAccount) error
	GetAccount(ctx context.Context, id string) (UserAccount, error)
	GetAccountByEmail(ctx context.Context, email string) (UserAccount, error)
	ListAccounts(ctx context.Context) ([]UserAccount, error)

	CreateHealthUnit(ctx context.Context, u HealthUnit) error
	ListHealthUnits(ctx context.Context) ([]HealthUnit, error)
}
