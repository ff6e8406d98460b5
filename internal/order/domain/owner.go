package domain

type GuestContact struct {
	Email    string
	FullName string
}

// Owner identifies who placed an order: a registered user id or guest
// contact details, exactly one of the two for the order's lifetime.
type Owner struct {
	UserID string
	Guest  *GuestContact
}

func RegisteredOwner(userID string) Owner {
	return Owner{UserID: userID}
}

func GuestOwner(email, fullName string) Owner {
	return Owner{Guest: &GuestContact{Email: email, FullName: fullName}}
}

func (o Owner) IsRegistered() bool {
	return o.UserID != ""
}

func (o Owner) IsGuest() bool {
	return o.Guest != nil
}

// Principal is the authenticated caller as supplied by the identity
// provider. The zero value is an anonymous caller.
type Principal struct {
	UserID string
	Admin  bool
}

func (p Principal) Anonymous() bool {
	return p.UserID == "" && !p.Admin
}
