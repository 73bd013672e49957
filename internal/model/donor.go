package model

// Donor 登记的献血者；创建后只会被删除，不会被修改
type Donor struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Blood    BloodType `json:"blood"`
	Phone    string    `json:"phone"`
	Center   string    `json:"center"`
	Verified bool      `json:"verified"`
	Email    string    `json:"email,omitempty"`
}

func (d Donor) EntityID() string { return d.ID }

