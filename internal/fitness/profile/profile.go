package profile

type Profile struct {
	Sex           string  `json:"sex"`
	Age           int     `json:"age"`
	HeightCm      float64 `json:"heightCm"`
	CurrWeightLbs float64 `json:"currWeightLbs"`
	Activity      string  `json:"activity"`
}
