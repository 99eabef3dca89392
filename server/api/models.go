package api

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout_time,omitempty"`
	LastLoginTime  string `json:"last_login_time,omitempty"`
}

type UserUpdateRequest struct {
	ID       UpdateString `json:"id,omitempty"`
	Username UpdateString `json:"username,omitempty"`
	Password UpdateString `json:"password,omitempty"`
	Email    UpdateString `json:"email"`
	Role     UpdateString `json:"role,omitempty"`
}

type UpdateString struct {
	Update bool   `json:"u,omitempty"`
	Value  string `json:"v,omitempty"`
}

type InfoModel struct {
	Version struct {
		Server      string `json:"server"`
		MinnowQuest string `json:"minnowquest"`
	} `json:"version"`
}

type SessionModel struct {
	URI        string `json:"uri"`
	ID         string `json:"id"`
	User       string `json:"user"`
	World      string `json:"world"`
	Created    string `json:"created"`
	LastActive string `json:"last_active"`
}

type SessionCreateRequest struct {
	World string `json:"world"`
}

type CommandRequest struct {
	Input string `json:"input"`
}

type CommandModel struct {
	URI     string            `json:"uri"`
	ID      string            `json:"id"`
	Session string            `json:"session"`
	Input   string            `json:"input"`
	Body    string            `json:"body"`
	Extras  map[string]string `json:"extras,omitempty"`
	Created string            `json:"created"`
}
