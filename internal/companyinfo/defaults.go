package companyinfo

import "affordhostel/pkg/domain"

const (
	defaultMission = "To simplify and democratize student accommodation in Kenya by providing a transparent, secure, and user-friendly platform that connects students with quality, affordable hostels near their universities."
	defaultVision  = "To become the leading student accommodation platform in East Africa, empowering students to focus on their education while we take care of their housing needs through innovation and excellence."
)

// Defaults returns a fresh copy of the built-in company info.
func Defaults() domain.CompanyInfo {
	return domain.CompanyInfo{
		Mission: defaultMission,
		Vision:  defaultVision,
		Team: []domain.TeamMember{
			{
				ID:    "1",
				Name:  "Sarah Wanjiku",
				Role:  "CEO & Co-Founder",
				Bio:   "Former university student who experienced the challenges of finding quality accommodation firsthand.",
				Image: "https://images.unsplash.com/photo-1494790108755-2616b612b786?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
			},
			{
				ID:    "2",
				Name:  "James Kiprotich",
				Role:  "CTO & Co-Founder",
				Bio:   "Tech enthusiast with 8+ years of experience building scalable platforms for the African market.",
				Image: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
			},
			{
				ID:    "3",
				Name:  "Grace Akinyi",
				Role:  "Head of Operations",
				Bio:   "Operations expert ensuring smooth platform functionality and excellent user experience.",
				Image: "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
			},
			{
				ID:    "4",
				Name:  "Michael Omondi",
				Role:  "Head of Partnerships",
				Bio:   "Building relationships with universities, landlords, and agents across Kenya.",
				Image: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?ixlib=rb-4.0.3&auto=format&fit=crop&w=400&q=80",
			},
		},
	}
}
