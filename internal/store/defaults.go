package store

const signature = `
Best regards,
{senderName}`

// Defaults returns the seed templates written on first start.
func Defaults() []Template {
	return []Template{
		{
			Type:    TypeCold,
			Subject: "Seeking Internship | Engineering Student with Resume Attached",
			Body: `Hi {recipientName},

I'm a B.Tech IT student passionate about solving real-world problems with web development and DSA, and I've built projects like a Mess Management System and a Hostel Finder System.

I'm seeking internship opportunities where I can contribute and grow. I admire the work done at {companyName} and would love to explore how I can be part of it.

PFA my resume. Thank you for your time!
` + signature,
		},
		{
			Type:    TypeReferral,
			Subject: "Referral Request | {position} at {companyName} (Job ID: {jobId})",
			Body: `Hi {recipientName},

I came across the {position} opening at {companyName} (Job ID: {jobId}) and believe my background is a strong match.

Would you be open to referring me for this role? I've attached my resume for your reference and I'm happy to share anything else that would help.

Thank you for considering my request!
` + signature,
		},
		{
			Type:    TypeHR,
			Subject: "Application for {position} at {companyName}",
			Body: `Dear {recipientName},

I'm writing to express my interest in the {position} role at {companyName}. My projects and coursework have prepared me to contribute from day one.

Please find my resume attached. I'd welcome the chance to discuss how I can add value to your team.

Thank you for your time and consideration.
` + signature,
		},
	}
}
