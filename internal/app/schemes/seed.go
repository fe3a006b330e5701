package schemes

import (
	"context"
	"time"

	"github.com/armywelfare/welfare-api/internal/domain"
)

// Seed loads the reference catalogue when the repository is empty and returns
// the number of schemes inserted.
func (s *Service) Seed(ctx context.Context) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	n := 0
	for _, sc := range Catalogue(s.clk.Now()) {
		if err := s.repo.Create(ctx, sc); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Catalogue returns the reference schemes. IDs "1".."7" carry full rules; the
// "r1".."r5" entries carry roster rules (age range, status, rank) and are the
// ones the roster query can match. CreatedAt is spaced one second apart so
// listing order follows the catalogue.
func Catalogue(now time.Time) []domain.Scheme {
	ranks := []string{"officer", "jawan", "NCO", "VCO"}
	out := []domain.Scheme{
		{
			ID:          "1",
			Title:       "Education Support Grant",
			Description: "Financial assistance for children's education including tuition fees, books, and supplies.",
			Category:    domain.CategoryEducation,
			Eligibility: domain.EligibilityRule{
				MinServiceYears: domain.IntPtr(5),
				Ranks:           []string{"Captain", "Major", "Colonel", "Lieutenant"},
				Statuses:        []domain.ServiceStatus{domain.ServiceStatusActive, domain.ServiceStatusRetired},
				Specializations: []string{"Infantry", "Artillery", "Engineers"},
			},
			Amount:        "₹50,000",
			Deadline:      date(2024, 3, 15),
			Status:        domain.SchemeStatusActive,
			Applicants:    45,
			MaxApplicants: 100,
		},
		{
			ID:          "2",
			Title:       "Medical Emergency Fund",
			Description: "Emergency financial support for critical medical treatments and surgeries.",
			Category:    domain.CategoryMedical,
			Eligibility: domain.EligibilityRule{
				Ranks:    []string{"Captain", "Major", "Colonel", "Lieutenant", "Sergeant", "Corporal"},
				Statuses: []domain.ServiceStatus{domain.ServiceStatusActive, domain.ServiceStatusRetired, domain.ServiceStatusFamily},
			},
			Amount:        "₹2,00,000",
			Deadline:      date(2024, 2, 28),
			Status:        domain.SchemeStatusActive,
			Applicants:    23,
			MaxApplicants: 50,
		},
		{
			ID:          "3",
			Title:       "Housing Loan Subsidy",
			Description: "Interest subsidy on home loans for army personnel and their families.",
			Category:    domain.CategoryHousing,
			Eligibility: domain.EligibilityRule{
				MinServiceYears: domain.IntPtr(8),
				Ranks:           []string{"Major", "Colonel", "Lieutenant Colonel"},
				Statuses:        []domain.ServiceStatus{domain.ServiceStatusActive},
				Specializations: []string{"Infantry", "Artillery", "Engineers", "Signals"},
			},
			Amount:        "₹5,00,000",
			Deadline:      date(2024, 4, 30),
			Status:        domain.SchemeStatusActive,
			Applicants:    78,
			MaxApplicants: 200,
		},
		{
			ID:          "4",
			Title:       "Skill Development Program",
			Description: "Training and certification programs for career advancement and skill building.",
			Category:    domain.CategoryTraining,
			Eligibility: domain.EligibilityRule{
				MaxAge:          domain.IntPtr(45),
				Ranks:           []string{"Captain", "Major", "Lieutenant", "Sergeant", "Corporal"},
				Statuses:        []domain.ServiceStatus{domain.ServiceStatusActive},
				Specializations: []string{"Infantry", "Artillery", "Engineers", "Signals", "Medical"},
			},
			Amount:        "₹25,000",
			Deadline:      date(2024, 1, 31),
			Status:        domain.SchemeStatusClosed,
			Applicants:    120,
			MaxApplicants: 120,
		},
		{
			ID:          "5",
			Title:       "Family Welfare Support",
			Description: "Monthly allowance for families facing financial hardships.",
			Category:    domain.CategoryFamily,
			Eligibility: domain.EligibilityRule{
				Statuses: []domain.ServiceStatus{domain.ServiceStatusFamily},
				Genders:  []string{"female"},
			},
			Amount:        "₹15,000/month",
			Deadline:      date(2024, 3, 31),
			Status:        domain.SchemeStatusPending,
			Applicants:    12,
			MaxApplicants: 75,
		},
		{
			ID:          "6",
			Title:       "Retirement Transition Grant",
			Description: "Financial support for personnel transitioning to civilian life after retirement.",
			Category:    domain.CategoryRetirement,
			Eligibility: domain.EligibilityRule{
				MinServiceYears: domain.IntPtr(15),
				Statuses:        []domain.ServiceStatus{domain.ServiceStatusRetired},
				Ranks:           []string{"Major", "Colonel", "Lieutenant Colonel", "Sergeant Major"},
			},
			Amount:        "₹3,00,000",
			Deadline:      date(2024, 5, 30),
			Status:        domain.SchemeStatusActive,
			Applicants:    34,
			MaxApplicants: 150,
		},
		{
			ID:          "7",
			Title:       "Special Forces Training Fund",
			Description: "Advanced training support for special forces personnel.",
			Category:    domain.CategoryTraining,
			Eligibility: domain.EligibilityRule{
				MaxAge:          domain.IntPtr(35),
				MinServiceYears: domain.IntPtr(3),
				Statuses:        []domain.ServiceStatus{domain.ServiceStatusActive},
				Specializations: []string{"Special Forces", "Para Commandos"},
				Ranks:           []string{"Captain", "Major", "Lieutenant"},
			},
			Amount:        "₹1,00,000",
			Deadline:      date(2024, 6, 15),
			Status:        domain.SchemeStatusActive,
			Applicants:    15,
			MaxApplicants: 50,
		},
		rosterScheme("r1", "Prime Minister's Scholarship Scheme (PMSS)",
			"Scholarships for dependent wards of ex-servicemen and widows to pursue professional and technical education.",
			domain.CategoryEducation, 18, 28, []domain.ServiceStatus{domain.ServiceStatusRetired}, ranks,
			"Monthly stipend of ₹2,500 to ₹3,000 for duration of course (max 4 years).",
			"Apply online via the official PMSS portal with required documents."),
		rosterScheme("r2", "Armed Forces Flag Day Fund (AFFDF)",
			"Financial aid for treatment of serious diseases and rehabilitation of serving/retired personnel.",
			domain.CategoryMedical, 18, 65, []domain.ServiceStatus{domain.ServiceStatusActive, domain.ServiceStatusRetired}, ranks,
			"One-time grant up to ₹50,000 for treatment of critical ailments, rehabilitation support.",
			"Submit application through unit welfare officer with medical documents."),
		rosterScheme("r3", "Raksha Mantri Ex-Servicemen Welfare Fund (RMEWF)",
			"Supports various welfare and rehabilitation schemes for ex-servicemen and their dependents.",
			domain.CategoryOther, 21, 60, []domain.ServiceStatus{domain.ServiceStatusRetired}, ranks,
			"Financial assistance for education of children, vocational training, and housing support.",
			"Download form from RMEWF portal and submit via ZSB office."),
		rosterScheme("r4", "One Rank One Pension (OROP)",
			"Ensures uniform pension to retired personnel of the same rank and length of service.",
			domain.CategoryRetirement, 50, 75, []domain.ServiceStatus{domain.ServiceStatusRetired}, ranks,
			"Pension enhanced to OROP rates, plus arrears if applicable.",
			"Apply through PCDA (Pension) website with pension details and rank proof."),
		rosterScheme("r5", "Central Government Health Scheme (CGHS)",
			"Comprehensive healthcare facilities for central government employees and pensioners, including armed forces.",
			domain.CategoryMedical, 18, 70, []domain.ServiceStatus{domain.ServiceStatusActive, domain.ServiceStatusRetired}, ranks,
			"Free OPD, medicines, diagnostic services, hospitalization in CGHS-accredited hospitals.",
			"Enroll at nearest CGHS office with ID proof and pension/employee certificate."),
	}
	for i := range out {
		ts := now.Add(time.Duration(i) * time.Second)
		out[i].CreatedAt = ts
		out[i].UpdatedAt = ts
	}
	return out
}

func rosterScheme(id domain.SchemeID, title, desc, category string, minAge, maxAge int, statuses []domain.ServiceStatus, ranks []string, benefits, process string) domain.Scheme {
	return domain.Scheme{
		ID:          id,
		Title:       title,
		Description: desc,
		Category:    category,
		Eligibility: domain.EligibilityRule{
			MinAge:   domain.IntPtr(minAge),
			MaxAge:   domain.IntPtr(maxAge),
			Statuses: statuses,
			Ranks:    append([]string(nil), ranks...),
		},
		Benefits:           benefits,
		ApplicationProcess: process,
		Status:             domain.SchemeStatusActive,
	}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
