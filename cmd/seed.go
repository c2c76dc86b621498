package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dcode-github/rishstay/config"
	"github.com/dcode-github/rishstay/controllers"
	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/store"
	"github.com/dcode-github/rishstay/store/mongostore"
	"github.com/dcode-github/rishstay/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// seedFile is the fixture layout read by the seed command. Properties and
// reviews refer to their users by email.
type seedFile struct {
	Users      []models.SignupRequest `yaml:"users"`
	Properties []seedProperty         `yaml:"properties"`
	Reviews    []seedReview           `yaml:"reviews"`
}

type seedProperty struct {
	Owner                string `yaml:"owner"`
	models.PropertyInput `yaml:",inline"`
}

type seedReview struct {
	Author  string `yaml:"author"`
	Comment string `yaml:"comment"`
}

type seedResult struct {
	Users, Properties, Reviews int
}

func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, properties and reviews from a YAML fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open fixture: %w", err)
			}
			defer f.Close()

			_, client, db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer config.CloseDBConnection(client)

			st := mongostore.New(db)
			if err := st.EnsureIndexes(cmd.Context()); err != nil {
				return err
			}
			res, err := seedFromFile(cmd.Context(), st, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users, %d properties, %d reviews\n", res.Users, res.Properties, res.Reviews)
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "seed.yaml", "Fixture file to load")

	return cmd
}

// seedFromFile validates and inserts every fixture record. Users whose email
// is already registered and authors who already have a review are skipped.
func seedFromFile(ctx context.Context, st store.Store, r io.Reader) (seedResult, error) {
	var res seedResult
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return res, fmt.Errorf("parse fixture: %w", err)
	}

	for i, req := range file.Users {
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if errs := utils.ValidateStruct(&req); len(errs) > 0 {
			return res, fieldErrors(fmt.Sprintf("user %d", i), errs)
		}
		if _, err := st.UserByEmail(ctx, req.Email); err == nil {
			log.Printf("Seed user %s already exists, skipping", req.Email)
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return res, err
		}
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			return res, err
		}
		user := &models.User{Name: req.Name, Email: req.Email, Phone: req.Phone, Password: hashed, Role: req.Role}
		if err := st.CreateUser(ctx, user); err != nil {
			return res, fmt.Errorf("user %s: %w", req.Email, err)
		}
		res.Users++
	}

	for i, sp := range file.Properties {
		owner, err := st.UserByEmail(ctx, strings.ToLower(sp.Owner))
		if err != nil {
			return res, fmt.Errorf("property %d owner %s: %w", i, sp.Owner, err)
		}
		if owner.Role != models.RoleLandlord {
			return res, fmt.Errorf("property %d: owner %s is not a landlord", i, sp.Owner)
		}
		in := sp.PropertyInput
		in.Normalize()
		if errs := utils.ValidateStruct(&in); len(errs) > 0 {
			return res, fieldErrors(fmt.Sprintf("property %d", i), errs)
		}
		p, errs := controllers.NewProperty(in, owner.ID)
		if len(errs) > 0 {
			return res, fieldErrors(fmt.Sprintf("property %d", i), errs)
		}
		if err := st.CreateProperty(ctx, p); err != nil {
			return res, fmt.Errorf("property %d: %w", i, err)
		}
		res.Properties++
	}

	for i, sr := range file.Reviews {
		author, err := st.UserByEmail(ctx, strings.ToLower(sr.Author))
		if err != nil {
			return res, fmt.Errorf("review %d author %s: %w", i, sr.Author, err)
		}
		req := models.ReviewRequest{Comment: strings.TrimSpace(sr.Comment)}
		if errs := utils.ValidateStruct(&req); len(errs) > 0 {
			return res, fieldErrors(fmt.Sprintf("review %d", i), errs)
		}
		review := &models.Review{UserID: author.ID, Comment: req.Comment, UserName: author.Name, UserRole: author.Role}
		if err := st.CreateReview(ctx, review); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				log.Printf("Seed review by %s already exists, skipping", sr.Author)
				continue
			}
			return res, fmt.Errorf("review %d: %w", i, err)
		}
		res.Reviews++
	}
	return res, nil
}

func fieldErrors(what string, errs []models.FieldError) error {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Errorf("%s: %s", what, strings.Join(parts, "; "))
}
