package entity

import "time"

// Seller vendedor que puede tener stock propio. Lo administra la capa de usuarios (externa).
type Seller struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
}
