package store

import (
	"time"

	"creativesuite/internal/domain"
)

// Seed installs the default settings, the built-in accounts and the starter
// content an empty deployment ships with.
func (s *Store) Seed(accessPassword string) {
	now := s.Now()

	s.SetSettings(domain.GlobalSettings{
		LogoURL: "/static/logo.png",
		NavOrder: []string{
			"Home", "Projects", "Studio", "CodeSandbox", "NovelWriter", "Chat",
			"Generator", "Toolkit", "CSAssistant", "LearningHub", "Gallery",
			"Blog", "Profile", "Help", "Admin", "About",
		},
		Password:        accessPassword,
		MaintenanceMode: false,
		Announcement:    "Welcome to the Creative Suite! Check out the new Blog and Code Sandbox.",
		FeatureFlags:    domain.FeatureFlags{VideoGenerator: true, NewToolkit: true},
		AboutInfo: domain.AboutInfo{
			Email: "hello@creativesuite.dev",
			Name:  "Creative Suite Team",
			Bio:   "An all-in-one AI-powered toolkit for creativity and development.",
		},
	})

	admin := domain.User{
		ID:        NewID(),
		Name:      "Suite Admin",
		Email:     "admin@creativesuite.dev",
		Bio:       "Full-Stack Developer & AI Enthusiast",
		Role:      domain.UserRoleAdmin,
		IsPremium: true,
		Status:    domain.UserStatusActive,
		CreatedAt: now,
	}
	demo := domain.User{
		ID:        NewID(),
		Name:      "Jane Doe",
		Email:     "jane.doe@example.com",
		Bio:       "Creative Coder",
		Role:      domain.UserRoleUser,
		Status:    domain.UserStatusActive,
		CreatedAt: now.Add(-time.Minute),
	}
	s.SaveUser(admin)
	s.SaveUser(demo)

	s.SetFAQs([]domain.FAQ{
		{Question: "What is the Creative Suite?", Answer: "It's an all-in-one AI-powered platform for developers and designers to create, manage, and explore creative projects."},
		{Question: "How do I upgrade to Premium?", Answer: "You can upgrade to a Premium plan from your Profile page to unlock all features, including unlimited generations and advanced AI tools."},
		{Question: "Can I use my creations commercially?", Answer: "Creations are subject to the terms of service of the underlying AI models. Please review our policies for detailed information."},
		{Question: "How does the Code Sandbox AI work?", Answer: "The AI in the Code Sandbox can generate HTML, CSS, and JavaScript from a text prompt, helping you quickly prototype ideas. This is a premium feature."},
	})

	s.SaveBlogPost(domain.BlogPost{
		ID:          NewID(),
		Title:       "Welcome to the Creative Suite!",
		Content:     "Welcome! This is your new creative playground. Explore the tools, generate amazing content, and manage your projects all in one place.",
		AuthorName:  admin.Name,
		Tags:        []string{"Welcome", "Getting Started"},
		IsPublished: true,
		CreatedAt:   now,
	})
	s.SaveBlogPost(domain.BlogPost{
		ID:          NewID(),
		Title:       "Unlocking Creativity with AI Generators",
		Content:     "AI image and video generation is not just a novelty; it's a powerful tool for designers and developers. Learn how to craft effective prompts and iterate on ideas.",
		AuthorName:  admin.Name,
		Tags:        []string{"AI", "Design", "Creativity"},
		IsPublished: true,
		CreatedAt:   now.Add(-48 * time.Hour),
	})
}
