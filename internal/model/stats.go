package model

type Stats struct {
	Donors        int       `json:"donors"`
	Receivers     int       `json:"receivers"`
	MostRequested BloodType `json:"most_requested"`
}
