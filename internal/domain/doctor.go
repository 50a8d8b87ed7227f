package domain

type Doctor struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Specialty     string `json:"specialty"`
	ImageURL      string `json:"image_url"`
	SessionPrice  int64  `json:"session_price"` // smallest currency unit
	ClinicAddress string `json:"clinic_address"`
}
