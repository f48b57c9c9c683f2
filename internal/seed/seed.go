package seed

import (
	"log"
	"math/rand"
	"time"

	"devhub/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with a coherent mesh of users, groups,
// content and engagement.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rnd     *rand.Rand
}

// NewSeeder creates a Seeder with default options.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db, Options{}),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes every seeded table. Join and relation tables go first.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"comment_likes", "content_tags", "likes", "followers",
		"comments", "contents", "group_users", "groups", "tags", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	log.Println("Cleared all tables")
	return nil
}

// SeedUsers creates n users and a follow mesh between them, keeping the
// denormalized counters in sync.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	for _, follower := range users {
		count := s.rnd.Intn(5)
		for i := 0; i < count; i++ {
			target := users[s.rnd.Intn(len(users))]
			if target.ID == follower.ID {
				continue
			}
			err := s.db.Transaction(func(tx *gorm.DB) error {
				res := tx.Where("follower_id = ? AND following_id = ?", follower.ID, target.ID).
					FirstOrCreate(&models.Follower{FollowerID: follower.ID, FollowingID: target.ID})
				if res.Error != nil || res.RowsAffected == 0 {
					return res.Error
				}
				if err := tx.Model(&models.User{}).Where("id = ?", follower.ID).
					UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
					return err
				}
				return tx.Model(&models.User{}).Where("id = ?", target.ID).
					UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error
			})
			if err != nil {
				return nil, err
			}
		}
	}

	log.Printf("Seeded %d users", len(users))
	return users, nil
}

// SeedGroups creates groups owned by random users and fills them with
// members.
func (s *Seeder) SeedGroups(users []*models.User, n int) ([]*models.Group, error) {
	groups := make([]*models.Group, 0, n)
	for i := 0; i < n; i++ {
		owner := users[s.rnd.Intn(len(users))]
		g, err := s.factory.CreateGroup(owner)
		if err != nil {
			return nil, err
		}

		memberCount := s.rnd.Intn(len(users)/2 + 1)
		for j := 0; j < memberCount; j++ {
			member := users[s.rnd.Intn(len(users))]
			if member.ID == owner.ID {
				continue
			}
			res := s.db.Where("user_id = ? AND group_id = ?", member.ID, g.ID).
				FirstOrCreate(&models.GroupUser{
					UserID:  member.ID,
					GroupID: g.ID,
					Role:    models.GroupRoleUser,
				})
			if res.Error != nil {
				return nil, res.Error
			}
		}
		groups = append(groups, g)
	}

	log.Printf("Seeded %d groups", len(groups))
	return groups, nil
}

// SeedContent creates n content rows spread across types, authors and
// groups, with tags attached.
func (s *Seeder) SeedContent(users []*models.User, groups []*models.Group, n int) ([]*models.Content, error) {
	tags, err := s.factory.CreateTags(nil)
	if err != nil {
		return nil, err
	}

	types := []models.ContentType{
		models.ContentTypePost,
		models.ContentTypeMeetup,
		models.ContentTypePodcast,
	}

	contents := make([]*models.Content, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rnd.Intn(len(users))]
		t := types[s.rnd.Intn(len(types))]
		c := s.factory.BuildContent(author, t)
		if len(groups) > 0 && s.rnd.Intn(3) == 0 {
			c.GroupID = &groups[s.rnd.Intn(len(groups))].ID
		}
		contents = append(contents, c)
	}
	if err := s.factory.CreateContentBatch(contents); err != nil {
		return nil, err
	}

	for _, c := range contents {
		count := s.rnd.Intn(4)
		if count == 0 {
			continue
		}
		picked := make([]models.Tag, 0, count)
		for _, i := range s.rnd.Perm(len(tags))[:count] {
			picked = append(picked, tags[i])
		}
		if err := s.db.Model(c).Association("Tags").Replace(picked); err != nil {
			return nil, err
		}
	}

	log.Printf("Seeded %d content items", len(contents))
	return contents, nil
}

// SeedEngagement adds likes and comments with counters kept in sync.
func (s *Seeder) SeedEngagement(users []*models.User, contents []*models.Content) error {
	for _, c := range contents {
		likes := s.rnd.Intn(len(users)/2 + 1)
		for _, i := range s.rnd.Perm(len(users))[:likes] {
			err := s.db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&models.Like{UserID: users[i].ID, ContentID: c.ID}).Error; err != nil {
					return err
				}
				return tx.Model(&models.Content{}).Where("id = ?", c.ID).
					UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
			})
			if err != nil {
				return err
			}
		}

		comments := s.rnd.Intn(4)
		for j := 0; j < comments; j++ {
			author := users[s.rnd.Intn(len(users))]
			err := s.db.Transaction(func(tx *gorm.DB) error {
				comment := &models.Comment{
					Text:      "Great write-up, thanks for sharing!",
					AuthorID:  author.ID,
					ContentID: c.ID,
				}
				if err := tx.Create(comment).Error; err != nil {
					return err
				}
				return tx.Model(&models.Content{}).Where("id = ?", c.ID).
					UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
			})
			if err != nil {
				return err
			}
		}
	}

	log.Println("Seeded engagement")
	return nil
}
