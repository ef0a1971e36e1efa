package domain

// Account is a registered user as held by the credential store. Password is
// a bcrypt hash unless the server runs in insecure plaintext mode.
type Account struct {
	Username  string `json:"username" bson:"_id"`
	Password  string `json:"password" bson:"password"`
	FirstName string `json:"firstName" bson:"firstName"`
	ImageURL  string `json:"imageUrl" bson:"imageUrl"`
}

// Public strips the credential.
func (a Account) Public() PublicUser {
	return PublicUser{
		Username:  a.Username,
		FirstName: a.FirstName,
		ImageURL:  a.ImageURL,
	}
}

// PublicUser is the part of an Account that may leave the server.
type PublicUser struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	ImageURL  string `json:"imageUrl"`
}

// Session is the client-held record of a successful login. The server keeps
// no copy; Token is a signed, self-contained proof of the login.
type Session struct {
	PublicUser
	Token string `json:"token,omitempty"`
}
