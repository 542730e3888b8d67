package interviews

type createRequest struct {
	Job          string   `json:"job" binding:"required"`
	Interviewers []string `json:"interviewers"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Mode         string   `json:"mode"`
	MeetingLink  string   `json:"meetingLink"`
	Location     string   `json:"location"`
	Notes        string   `json:"notes"`
}

type updateRequest struct {
	Interviewers *[]string `json:"interviewers"`
	Date         *string   `json:"date"`
	Time         *string   `json:"time"`
	Mode         *string   `json:"mode"`
	MeetingLink  *string   `json:"meetingLink"`
	Location     *string   `json:"location"`
	Status       *string   `json:"status"`
	Notes        *string   `json:"notes"`
}
