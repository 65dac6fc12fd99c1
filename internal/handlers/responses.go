package handlers

// IDResponse is the response for create operations
type IDResponse struct {
	ID int64 `json:"id"`
}

// RegisterResponse is the response for roster registration
type RegisterResponse struct {
	CategoryID int  `json:"category_id"`
	PlayerID   int  `json:"player_id"`
	Registered bool `json:"registered"` // false when already registered
}
