package models

type SurveyQuestion struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// SurveyQuestions is the fixed satisfaction survey catalog shown on the
// kiosk. Responses reference questions by ID with a 1-5 rating.
var SurveyQuestions = []SurveyQuestion{
	// Overall Experience
	{ID: "overall_satisfied", Text: "I am satisfied with my overall experience at Recovery Point.", Category: "Overall Experience"},
	{ID: "safe_environment", Text: "I feel safe and secure in this environment.", Category: "Overall Experience"},
	{ID: "program_helping", Text: "This program is helping me in my recovery journey.", Category: "Overall Experience"},

	// Staff & Support
	{ID: "staff_respectful", Text: "Staff members treat me with dignity and respect.", Category: "Staff & Support"},
	{ID: "staff_available", Text: "Staff are available when I need support or have questions.", Category: "Staff & Support"},
	{ID: "staff_knowledgeable", Text: "Staff are knowledgeable and helpful in my recovery.", Category: "Staff & Support"},
	{ID: "concerns_addressed", Text: "My concerns and complaints are addressed in a timely manner.", Category: "Staff & Support"},

	// Program Structure
	{ID: "rules_fair", Text: "The program rules and restrictions are fair and necessary for recovery.", Category: "Program Structure"},
	{ID: "daily_structure", Text: "The daily structure and schedule supports my recovery goals.", Category: "Program Structure"},
	{ID: "counseling_helpful", Text: "Individual counseling sessions are helpful and meaningful.", Category: "Program Structure"},
	{ID: "group_valuable", Text: "Group therapy sessions provide value to my recovery.", Category: "Program Structure"},
	{ID: "activities_engaging", Text: "Program activities and classes are engaging and beneficial.", Category: "Program Structure"},

	// Living Conditions
	{ID: "housing_adequate", Text: "The housing accommodations meet my basic needs.", Category: "Living Conditions"},
	{ID: "food_satisfactory", Text: "The food quality and meal options are satisfactory.", Category: "Living Conditions"},
	{ID: "facility_clean", Text: "The facility is clean and well-maintained.", Category: "Living Conditions"},
	{ID: "personal_space", Text: "I have adequate personal space and privacy when needed.", Category: "Living Conditions"},

	// Personal Growth
	{ID: "coping_skills", Text: "I am developing better coping skills for life challenges.", Category: "Personal Growth"},
	{ID: "relationships_improving", Text: "My relationships with family and others are improving.", Category: "Personal Growth"},
	{ID: "future_hopeful", Text: "I feel hopeful about my future after completing this program.", Category: "Personal Growth"},
	{ID: "making_progress", Text: "I can see positive changes in myself since starting the program.", Category: "Personal Growth"},

	// Communication & Resources
	{ID: "info_clear", Text: "Information about program expectations and progress is communicated clearly.", Category: "Communication & Resources"},
	{ID: "resources_available", Text: "Educational and support resources are readily available when I need them.", Category: "Communication & Resources"},
	{ID: "tech_adequate", Text: "The kiosk system provides adequate access for my needs.", Category: "Communication & Resources"},

	// Recovery Environment
	{ID: "peers_supportive", Text: "My peers in the program are generally supportive of recovery.", Category: "Recovery Environment"},
	{ID: "triggers_managed", Text: "The program helps me identify and manage my triggers effectively.", Category: "Recovery Environment"},
	{ID: "spiritual_supported", Text: "My spiritual or personal beliefs are respected and supported.", Category: "Recovery Environment"},
	{ID: "prepared_transition", Text: "I feel the program is preparing me for successful transition after completion.", Category: "Recovery Environment"},
}

var RatingLabels = map[string]string{
	"1": "Strongly Disagree",
	"2": "Disagree",
	"3": "Neutral",
	"4": "Agree",
	"5": "Strongly Agree",
}
