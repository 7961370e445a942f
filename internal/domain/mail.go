package domain

const (
	MailCreateUser    = "create_user"
	MailResetPassword = "reset_password"
	MailSkillDecision = "skill_decision"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type SkillDecisionMailData struct {
	FullName   string   `json:"fullName"`
	SkillName  string   `json:"skillName"`
	CourseName string   `json:"courseName"`
	Approval   Approval `json:"approval"`
}
