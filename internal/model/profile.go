package model

// Profile is the signed-in user's account as returned by /auth/me.
type Profile struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email" validate:"required"`
	BirthDate string `json:"birthDate"`
	NIK       string `json:"nik"`
	Gender    string `json:"gender"`
	Address   string `json:"address"`
	Phone     string `json:"phone,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// Statistics summarises completed hikes.
type Statistics struct {
	TotalHikes int     `json:"totalHikes"`
	TotalDays  int     `json:"totalDays"`
	TotalHours float64 `json:"totalHours"`
}
