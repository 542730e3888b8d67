package feedback

type submitRequest struct {
	Application         string `json:"application"`
	Interview           string `json:"interview"`
	TechnicalSkills     *int   `json:"technicalSkills"`
	CommunicationSkills *int   `json:"communicationSkills"`
	ProblemSolving      *int   `json:"problemSolving"`
	CultureFit          *int   `json:"cultureFit"`
	OverallRating       *int   `json:"overallRating"`
	Comments            string `json:"comments"`
	Recommendation      string `json:"recommendation"`
}
