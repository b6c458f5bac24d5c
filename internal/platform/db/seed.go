package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/recruitment"
	"hrms/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail != "" {
		if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}
	if cfg.SeedDemoData {
		if err := ensureDemoRecruitment(ctx, pool); err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, adminEmail, adminPassword string) error {
	var existing string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE lower(email) = lower($1)", adminEmail).Scan(&existing)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, first_name, last_name, role)
    VALUES ($1,$2,$3,$4,$5)
  `, adminEmail, hash, "System", "Admin", auth.RoleAdmin)
	return err
}

type demoJob struct {
	title          string
	department     string
	description    string
	requiredSkills []string
}

type demoResume struct {
	name            string
	email           string
	phone           string
	resumeText      string
	skills          []string
	experienceYears int
	education       string
}

func ensureDemoRecruitment(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM job_openings").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	jobs := []demoJob{
		{
			title:          "Senior Backend Engineer",
			department:     "Engineering",
			description:    "Design and build the services behind our HR platform.",
			requiredSkills: []string{"go", "postgresql", "rest", "docker"},
		},
		{
			title:          "Frontend Developer",
			department:     "Engineering",
			description:    "Own the employee-facing portal and its component library.",
			requiredSkills: []string{"react", "typescript", "css"},
		},
		{
			title:          "HR Generalist",
			department:     "Human Resources",
			description:    "Run onboarding, benefits, and day-to-day people operations.",
			requiredSkills: []string{"onboarding", "benefits", "hris"},
		},
	}
	for _, j := range jobs {
		if _, err := pool.Exec(ctx, `
      INSERT INTO job_openings (title, department, description, required_skills, status)
      VALUES ($1,$2,$3,$4,$5)
    `, j.title, j.department, j.description, j.requiredSkills, recruitment.JobStatusOpen); err != nil {
			return err
		}
	}

	resumes := []demoResume{
		{
			name:            "Priya Sharma",
			email:           "priya.sharma@example.com",
			phone:           "+1-555-0101",
			resumeText:      "Backend engineer with eight years of experience building APIs in Go and Python. Led a team of four on a payments platform.",
			skills:          []string{"go", "python", "postgresql", "kubernetes"},
			experienceYears: 8,
			education:       "BSc Computer Science",
		},
		{
			name:            "Marcus Webb",
			email:           "marcus.webb@example.com",
			phone:           "+1-555-0102",
			resumeText:      "Frontend developer specialising in React and design systems. Shipped three consumer products end to end.",
			skills:          []string{"react", "typescript", "css", "figma"},
			experienceYears: 4,
			education:       "BA Interaction Design",
		},
		{
			name:            "Elena Petrova",
			email:           "elena.petrova@example.com",
			phone:           "+1-555-0103",
			resumeText:      "Full-stack engineer comfortable across Node, React, and SQL. Recently completed a data engineering certification.",
			skills:          []string{"node", "react", "sql"},
			experienceYears: 5,
			education:       "MSc Software Engineering",
		},
		{
			name:            "Tomás Rivera",
			email:           "tomas.rivera@example.com",
			phone:           "+1-555-0104",
			resumeText:      "People operations specialist with a background in onboarding programmes and HRIS administration.",
			skills:          []string{"onboarding", "hris", "payroll"},
			experienceYears: 3,
			education:       "BA Human Resource Management",
		},
	}
	for _, r := range resumes {
		if _, err := pool.Exec(ctx, `
      INSERT INTO mock_resumes (name, email, phone, resume_text, skills, experience_years, education)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, r.name, r.email, r.phone, r.resumeText, r.skills, r.experienceYears, r.education); err != nil {
			return err
		}
	}
	return nil
}
