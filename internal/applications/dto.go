package applications

type submitRequest struct {
	Job            string `json:"job" form:"job"`
	CoverLetter    string `json:"coverLetter" form:"coverLetter"`
	ResumeKey      string `json:"resumeKey" form:"resumeKey"`
	ResumeFileName string `json:"resumeFileName" form:"resumeFileName"`
}

type statusRequest struct {
	Status      string `json:"status"`
	InterviewID string `json:"interviewId"`
}

type assignRequest struct {
	InterviewID string `json:"interviewId"`
}
