package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"yatube/config"
	"yatube/db"
	"yatube/logs"
	"yatube/models"
	"yatube/services"

	"github.com/brianvoe/gofakeit/v7"
)

// Заполняет базу случайными группами, пользователями, постами, подписками и комментариями
func main() {
	var (
		configPath string
		groups     int
		users      int
		posts      int
		seed       uint64
	)
	flag.StringVar(&configPath, "config", "", "Path to the configuration file")
	flag.IntVar(&groups, "groups", 5, "Number of groups")
	flag.IntVar(&users, "users", 20, "Number of users")
	flag.IntVar(&posts, "posts", 10, "Posts per user")
	flag.Uint64Var(&seed, "seed", 0, "Random seed, 0 means random")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}
	defer db.Close()

	faker := gofakeit.New(seed)
	ctx := context.Background()

	groupIDs, err := seedGroups(ctx, faker, groups)
	if err != nil {
		panic(err)
	}
	userIDs, err := seedUsers(ctx, faker, users)
	if err != nil {
		panic(err)
	}

	postService := services.NewPostService()
	followService := services.NewFollowService()
	var postIDs []int64
	for _, userID := range userIDs {
		for i := 0; i < posts; i++ {
			input := services.PostInput{Text: faker.Paragraph(1, 3, 12, " ")}
			if len(groupIDs) > 0 && faker.Bool() {
				groupID := groupIDs[faker.Number(0, len(groupIDs)-1)]
				input.GroupID = &groupID
			}
			post, err := postService.CreatePost(ctx, userID, input)
			if err != nil {
				panic(err)
			}
			postIDs = append(postIDs, post.ID)
		}

		// Каждый подписывается на нескольких случайных авторов
		for i := 0; i < faker.Number(0, 5); i++ {
			authorID := userIDs[faker.Number(0, len(userIDs)-1)]
			if authorID == userID {
				continue
			}
			if err := followService.Follow(ctx, userID, authorID); err != nil {
				panic(err)
			}
		}
	}

	for _, postID := range postIDs {
		for i := 0; i < faker.Number(0, 3); i++ {
			authorID := userIDs[faker.Number(0, len(userIDs)-1)]
			if _, err := postService.AddComment(ctx, postID, authorID, faker.Sentence(faker.Number(3, 12))); err != nil {
				panic(err)
			}
		}
	}

	logs.Info("Database seeded", map[string]interface{}{"groups": len(groupIDs), "users": len(userIDs), "posts": len(postIDs)})
}

func seedGroups(ctx context.Context, faker *gofakeit.Faker, n int) ([]int64, error) {
	groupService := services.NewGroupService()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		title := faker.HipsterWord() + " " + faker.Noun()
		group := &models.Group{
			Title:       title,
			Slug:        fmt.Sprintf("%s-%d", strings.ReplaceAll(strings.ToLower(title), " ", "-"), i),
			Description: faker.Sentence(15),
		}
		if err := groupService.Create(ctx, group); err != nil {
			return nil, err
		}
		ids = append(ids, group.ID)
	}
	return ids, nil
}

func seedUsers(ctx context.Context, faker *gofakeit.Faker, n int) ([]int64, error) {
	userService := services.NewUserService()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		firstName := faker.FirstName()
		user, err := userService.Register(ctx, services.RegisterInput{
			Username:  fmt.Sprintf("%s_%s", strings.ToLower(firstName), faker.Numerify("######")),
			Password:  faker.Password(true, true, true, false, false, 12),
			FirstName: firstName,
			LastName:  faker.LastName(),
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, user.ID)
	}
	return ids, nil
}
