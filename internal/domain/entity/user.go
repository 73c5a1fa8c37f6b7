package entity

// User cliente del storefront tal como lo expone el backend.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Address   string
	Phone     string
	Role      string
}

// FullName nombre y apellido.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserUpdate actualización parcial del perfil (nil = no modificar).
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Address   *string
	Phone     *string
}

// IsEmpty true si no hay ningún campo a modificar.
func (u UserUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Address == nil && u.Phone == nil
}
