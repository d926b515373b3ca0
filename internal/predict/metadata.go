package predict

// CareerInfo is the static market metadata attached to each recommendation.
type CareerInfo struct {
	Salary string   `json:"salary"`
	Growth string   `json:"growth"`
	Skills []string `json:"skills"`
}

// careerMetadata is the catalog of careers the classifier can recommend.
var careerMetadata = map[string]CareerInfo{
	"Data Scientist": {
		Salary: "$90,000-$160,000",
		Growth: "36%",
		Skills: []string{"Python", "R", "SQL", "Machine Learning", "Statistics", "Data Visualization"},
	},
	"Software Engineer": {
		Salary: "$80,000-$150,000",
		Growth: "22%",
		Skills: []string{"Python", "JavaScript", "Git", "APIs", "Data Structures", "Algorithms"},
	},
	"Web Developer": {
		Salary: "$70,000-$130,000",
		Growth: "13%",
		Skills: []string{"HTML", "CSS", "JavaScript", "React", "Node.js", "Responsive Design"},
	},
	"UX/UI Designer": {
		Salary: "$75,000-$125,000",
		Growth: "13%",
		Skills: []string{"User Research", "Wireframing", "Prototyping", "Figma", "Adobe XD", "UI Design"},
	},
	"Product Manager": {
		Salary: "$100,000-$170,000",
		Growth: "10%",
		Skills: []string{"Product Strategy", "User Stories", "Roadmapping", "Agile", "Market Research", "Analytics"},
	},
	"AI Engineer": {
		Salary: "$100,000-$180,000",
		Growth: "40%",
		Skills: []string{"Python", "TensorFlow", "PyTorch", "Machine Learning", "Deep Learning", "NLP"},
	},
	"Cybersecurity Specialist": {
		Salary: "$90,000-$160,000",
		Growth: "33%",
		Skills: []string{"Network Security", "Penetration Testing", "Security Auditing", "Incident Response", "Cryptography", "Risk Assessment"},
	},
	"Business Analyst": {
		Salary: "$70,000-$125,000",
		Growth: "14%",
		Skills: []string{"Requirements Gathering", "Process Modeling", "SQL", "Data Analysis", "Visualization", "Documentation"},
	},
	"Financial Analyst": {
		Salary: "$70,000-$130,000",
		Growth: "9%",
		Skills: []string{"Financial Modeling", "Excel", "Data Analysis", "Accounting", "Forecasting", "Valuation"},
	},
	"Marketing Specialist": {
		Salary: "$60,000-$120,000",
		Growth: "10%",
		Skills: []string{"Digital Marketing", "SEO", "Social Media", "Content Strategy", "Analytics", "CRM"},
	},
}

// Metadata returns the catalog entry for a career. Unknown careers get a
// placeholder so a response never carries missing metadata.
func Metadata(career string) CareerInfo {
	if info, ok := careerMetadata[career]; ok {
		return info
	}
	return CareerInfo{Salary: "Not available", Growth: "Not available", Skills: []string{}}
}
