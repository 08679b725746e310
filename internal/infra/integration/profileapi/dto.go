package profileapi

type userResponse struct {
	PK            int64  `json:"pk"`
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	Biography     string `json:"biography"`
	PublicEmail   string `json:"public_email"`
	ExternalURL   string `json:"external_url"`
	FollowerCount int    `json:"follower_count"`
	IsPrivate     bool   `json:"is_private"`
}

type followingResponse struct {
	Users      []userResponse `json:"users"`
	NextCursor string         `json:"next_cursor"`
}
