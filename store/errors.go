package store

import "fmt"

type (
	DuplicateUsername struct {
		Username string
	}

	AccountNotFound struct {
		Username string
		ID       int64
	}

	ProductNotFound struct {
		ID int64
	}

	BootstrapClosed struct{}
)

func (d DuplicateUsername) Error() string {
	return fmt.Sprintf("username %v is already taken", d.Username)
}

func (a AccountNotFound) Error() string {
	if a.Username != "" {
		return fmt.Sprintf("account %v not found", a.Username)
	}
	return fmt.Sprintf("account %v not found", a.ID)
}

func (p ProductNotFound) Error() string {
	return fmt.Sprintf("product %v not found", p.ID)
}

func (b BootstrapClosed) Error() string {
	return "an administrator already exists"
}
