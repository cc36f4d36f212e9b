/*
Copyright © 2025 sinantan
*/
package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/sinantan/document-chat-assistant/config"
	"github.com/sinantan/document-chat-assistant/database"
	"github.com/sinantan/document-chat-assistant/repository"
	"github.com/sinantan/document-chat-assistant/service"
	"github.com/sinantan/document-chat-assistant/types"
)

// createUserCmd represents the create-user command
var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user account directly in the database",
	Run: func(cmd *cobra.Command, args []string) {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		ctx := context.Background()
		mongo, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongo.Close(ctx)

		userService := service.NewUserService(
			repository.NewUserRepo(mongo.Collection("users")),
			cfg.AccessTTL, cfg.RefreshTTL)

		user, err := userService.Register(ctx, &types.RegisterRequest{
			Username: username,
			Email:    email,
			Password: password,
		})
		if err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		log.Printf("Created user %s (%s)", user.Username, user.ID)
	},
}

func init() {
	rootCmd.AddCommand(createUserCmd)
	createUserCmd.Flags().StringP("username", "u", "", "username")
	createUserCmd.Flags().StringP("email", "e", "", "email address")
	createUserCmd.Flags().StringP("password", "p", "", "password")
	createUserCmd.MarkFlagRequired("username")
	createUserCmd.MarkFlagRequired("password")
}
