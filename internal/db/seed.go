package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedProfessions = []string{
	"Designer", "Backend Engineer", "Frontend Engineer", "Product Manager",
	"Data Scientist", "Marketer", "Illustrator", "QA Engineer",
}

var seedKinds = []ReactionKind{KindLove, KindAwesome, KindIncredible}

// SeedTestData resets the database and populates it with demo users, posts,
// idea posts, comments, reactions and participants.
//
// Behavior:
//  1. Clears all tables.
//  2. Creates 20 users with hashed passwords.
//  3. Creates 15 posts (every 3rd is an idea post) and a few comments.
//  4. Spreads reactions (upserted on the unique subject+user index) and
//     idea participants, keeping the participants table and the embedded
//     array in sync.
//  5. Adds a couple of demo notifications per idea post.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"notifications", "idea_participants", "reactions", "comments", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// Reset auto-increment sequences (only for MySQL)
	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range []string{"notifications", "reactions", "comments", "posts", "users"} {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence")
	}

	log.Println("Cleared existing data")

	// --- Seed Users ---
	for i := 1; i <= 20; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			AvatarURL:    fmt.Sprintf("https://avatars.example.com/u/%d.png", i),
			Profession:   seedProfessions[r.Intn(len(seedProfessions))],
			Active:       true,
			LastLoginAt:  time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Println("Seeded 20 users.")

	// --- Seed Posts (every 3rd is an idea post) ---
	var posts []Post
	for i := 1; i <= 15; i++ {
		post := Post{
			UserID: uint64(r.Intn(20) + 1),
			Body:   fmt.Sprintf("Demo post number %d", i),
		}
		if i%3 == 0 {
			post.IdeaTitle = fmt.Sprintf("Collaboration idea %d", i)
			post.Participants = ParticipantList{}
		}
		if err := db.Create(&post).Error; err != nil {
			return fmt.Errorf("failed to seed post: %w", err)
		}
		posts = append(posts, post)
	}

	// --- Seed Comments ---
	for i := 0; i < 30; i++ {
		comment := Comment{
			PostID: posts[r.Intn(len(posts))].ID,
			UserID: uint64(r.Intn(20) + 1),
			Body:   fmt.Sprintf("Demo comment %d", i+1),
		}
		if err := db.Create(&comment).Error; err != nil {
			return fmt.Errorf("failed to seed comment: %w", err)
		}
	}

	// --- Seed Reactions (~60, upserted so duplicates merge) ---
	for i := 0; i < 60; i++ {
		post := posts[r.Intn(len(posts))]
		reaction := Reaction{
			UserID: uint64(r.Intn(20) + 1),
			PostID: &post.ID,
			Kind:   seedKinds[r.Intn(len(seedKinds))],
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind", "updated_at"}),
		}).Create(&reaction).Error; err != nil {
			return fmt.Errorf("failed to seed reaction: %w", err)
		}
	}

	// --- Seed Idea Participants (table + embedded array together) ---
	for _, post := range posts {
		if post.IdeaTitle == "" {
			continue
		}
		entries := ParticipantList{}
		for j := 0; j < 3; j++ {
			userID := uint64(r.Intn(20) + 1)
			if userID == post.UserID || entries.Contains(userID) {
				continue
			}

			var user User
			if err := db.First(&user, userID).Error; err != nil {
				continue
			}

			participant := IdeaParticipant{
				PostID:     post.ID,
				UserID:     userID,
				Profession: user.Profession,
			}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&participant).Error; err != nil {
				return fmt.Errorf("failed to seed participant: %w", err)
			}

			entries = append(entries, ParticipantEntry{
				UserID:     user.ID,
				Username:   user.Username,
				AvatarURL:  user.AvatarURL,
				Profession: user.Profession,
				JoinedAt:   time.Now().UTC(),
			})
		}
		if err := db.Model(&Post{}).Where("id = ?", post.ID).
			Update("participants", entries).Error; err != nil {
			return fmt.Errorf("failed to seed embedded participants: %w", err)
		}
	}

	// --- Seed Notifications (a join and a like per idea post) ---
	for _, post := range posts {
		if post.IdeaTitle == "" {
			continue
		}
		sender := uint64(r.Intn(20) + 1)
		if sender == post.UserID {
			continue
		}
		postID := post.ID
		for _, kind := range []string{NotifyIdeaJoin, NotifyPostLike} {
			notification := Notification{
				Type:       kind,
				SenderID:   sender,
				ReceiverID: post.UserID,
				PostID:     &postID,
				Message:    fmt.Sprintf("user%d interacted with %q", sender, post.IdeaTitle),
			}
			if err := db.Create(&notification).Error; err != nil {
				return fmt.Errorf("failed to seed notification: %w", err)
			}
		}
	}

	log.Println("Seeded posts, comments, reactions, participants and notifications.")
	return nil
}
