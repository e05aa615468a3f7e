package store

import (
	"fmt"
	"testing"
	"time"

	"creativesuite/internal/domain"
)

func testUser(id, name string) domain.User {
	return domain.User{ID: id, Name: name, Email: name + "@example.com", Status: domain.UserStatusActive}
}

func TestActivityLogCapacity(t *testing.T) {
	s := New()
	u := testUser("u1", "logger")
	s.SaveUser(u)

	for i := 0; i < ActivityLogCapacity+50; i++ {
		s.LogActivity(u, "Action", fmt.Sprintf("entry %d", i))
	}

	if got := s.ActivityLen(); got != ActivityLogCapacity {
		t.Fatalf("ActivityLen() = %d, want %d", got, ActivityLogCapacity)
	}
	entries := s.Activity()
	if entries[0].Details != fmt.Sprintf("entry %d", ActivityLogCapacity+49) {
		t.Fatalf("Activity()[0].Details = %q, want newest entry first", entries[0].Details)
	}
	last := entries[len(entries)-1]
	if last.Details != fmt.Sprintf("entry %d", 50) {
		t.Fatalf("oldest retained entry = %q, want %q", last.Details, fmt.Sprintf("entry %d", 50))
	}
}

func TestActivityIdentitySnapshot(t *testing.T) {
	s := New()
	u := testUser("u1", "before")
	s.SaveUser(u)
	s.LogActivity(u, "Did Thing", "")

	s.MutateUser("u1", func(user *domain.User) { user.Name = "after" })

	entries := s.Activity()
	if entries[0].UserName != "before" {
		t.Fatalf("entry user name = %q, want snapshot %q", entries[0].UserName, "before")
	}
}

func TestUserByEmailCaseInsensitive(t *testing.T) {
	s := New()
	s.SaveUser(domain.User{ID: "u1", Email: "Jane.Doe@Example.com"})

	if _, ok := s.UserByEmail("jane.doe@example.com"); !ok {
		t.Fatalf("UserByEmail() did not match case-insensitively")
	}
	if _, ok := s.UserByEmail("other@example.com"); ok {
		t.Fatalf("UserByEmail() matched an unknown address")
	}
}

func TestMutateUserAtomicity(t *testing.T) {
	s := New()
	s.SaveUser(testUser("u1", "worker"))

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				s.MutateUser("u1", func(u *domain.User) { u.Usage.Generations++ })
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	u, _ := s.UserByID("u1")
	if u.Usage.Generations != 1000 {
		t.Fatalf("Usage.Generations = %d, want 1000", u.Usage.Generations)
	}
}

func TestProjectsByUserSortedNewestFirst(t *testing.T) {
	s := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s.SaveProject(domain.Project{
			ID:        fmt.Sprintf("p%d", i),
			UserID:    "u1",
			Name:      fmt.Sprintf("project %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	s.SaveProject(domain.Project{ID: "other", UserID: "u2", CreatedAt: base})

	projects := s.ProjectsByUser("u1")
	if len(projects) != 3 {
		t.Fatalf("ProjectsByUser() returned %d projects, want 3", len(projects))
	}
	if projects[0].ID != "p2" || projects[2].ID != "p0" {
		t.Fatalf("projects not sorted newest first: %s, %s, %s", projects[0].ID, projects[1].ID, projects[2].ID)
	}
}

func TestLikeGalleryItem(t *testing.T) {
	s := New()
	s.SaveGalleryItem(domain.GalleryItem{ID: "g1"})

	if !s.LikeGalleryItem("g1") {
		t.Fatalf("LikeGalleryItem() = false for existing item")
	}
	if s.LikeGalleryItem("missing") {
		t.Fatalf("LikeGalleryItem() = true for missing item")
	}
	item, _ := s.GalleryItemByID("g1")
	if item.Likes != 1 {
		t.Fatalf("Likes = %d, want 1", item.Likes)
	}
}

func TestSetClock(t *testing.T) {
	s := New()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return fixed })

	if got := s.Now(); !got.Equal(fixed) {
		t.Fatalf("Now() = %v, want %v", got, fixed)
	}
}
