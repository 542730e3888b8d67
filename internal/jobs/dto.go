package jobs

type createRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	Requirements []string `json:"requirements"`
	Salary       *Salary  `json:"salary"`
}

type updateRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Company      *string   `json:"company"`
	Location     *string   `json:"location"`
	Type         *string   `json:"type"`
	Requirements *[]string `json:"requirements"`
	Salary       *Salary   `json:"salary"`
	IsActive     *bool     `json:"isActive"`
}
