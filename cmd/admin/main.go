package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spicehaven/storefront/internal/admin"
	"github.com/spicehaven/storefront/internal/gateway"
	"github.com/spicehaven/storefront/internal/models"
)

var (
	// Global flags
	configPath string
	serverURL  string
	gatewayURL string
	anonKey    string

	// login flags
	loginEmail    string
	loginPassword string

	// add flags
	addName        string
	addDescription string
	addImageURL    string

	// delete flags
	deleteYes bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Spice Haven storefront admin dashboard",
	Long: `Manage the Spice Haven product catalog.

Sign in with your store account, then add or delete products. The session
is kept on disk between commands and re-verified against the auth gateway
before every change.`,
	SilenceUsage: true,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController()
		if err != nil {
			return err
		}

		if restored, err := ctrl.Resume(cmd.Context()); err == nil && restored {
			fmt.Printf("Already logged in as %s\n", ctrl.Session().User.Email)
			return nil
		}

		email := loginEmail
		if email == "" {
			email, err = promptLine("Email: ")
			if err != nil {
				return err
			}
		}

		password := loginPassword
		if password == "" {
			password, err = promptLine("Password: ")
			if err != nil {
				return err
			}
		}

		if err := ctrl.Login(cmd.Context(), email, password); err != nil {
			return err
		}

		fmt.Printf("Logged in as %s\n", ctrl.Session().User.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := resumedController(cmd.Context())
		if err != nil {
			return err
		}

		if err := ctrl.Logout(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Logged out")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController()
		if err != nil {
			return err
		}

		restored, err := ctrl.Resume(cmd.Context())
		if err != nil {
			return err
		}

		if !restored {
			fmt.Println("Logged out")
			return nil
		}

		session := ctrl.Session()
		fmt.Printf("Logged in as %s (session expires %s)\n",
			session.User.Email, session.ExpiresAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog products, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController()
		if err != nil {
			return err
		}

		products, err := ctrl.Products(cmd.Context())
		if err != nil {
			return err
		}

		if len(products) == 0 {
			fmt.Println("No products found. Add one with 'admin add'.")
			return nil
		}

		for _, p := range products {
			fmt.Printf("%s  %s", p.ID, p.Name)
			if p.Description != "" {
				fmt.Printf("  - %s", p.Description)
			}
			fmt.Println()
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := resumedController(cmd.Context())
		if err != nil {
			return err
		}

		product, err := ctrl.AddProduct(cmd.Context(), models.NewProduct{
			Name:        addName,
			Description: addDescription,
			ImageURL:    addImageURL,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Added %q (id %s)\n", product.Name, product.ID)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Delete a product from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID := args[0]

		if !deleteYes {
			answer, err := promptLine(fmt.Sprintf("Delete product %s? [y/N] ", productID))
			if err != nil {
				return err
			}
			if !strings.EqualFold(strings.TrimSpace(answer), "y") {
				fmt.Println("Aborted")
				return nil
			}
		}

		ctrl, err := resumedController(cmd.Context())
		if err != nil {
			return err
		}

		message, err := ctrl.DeleteProduct(cmd.Context(), productID)
		if err != nil {
			return err
		}

		fmt.Println(message)
		return nil
	},
}

// newController builds a controller from the config file and flags.
func newController() (*admin.Controller, error) {
	dir, err := defaultConfigDir()
	if err != nil {
		return nil, err
	}

	path := configPath
	if path == "" {
		path = filepath.Join(dir, "config.yaml")
	}

	config, err := loadCLIConfig(path)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		config.ServerURL = serverURL
	}
	if gatewayURL != "" {
		config.GatewayURL = gatewayURL
	}
	if anonKey != "" {
		config.AnonKey = anonKey
	}

	// The CLI never holds the privileged service key; mutations go
	// through the API server, which performs privileged writes itself.
	var auth admin.Authenticator
	if config.GatewayURL != "" {
		auth = gateway.NewClient(config.GatewayURL, config.AnonKey, "")
	} else {
		// Dev setup against a memory-store server: the dev token
		// doubles as the credential password.
		auth = devAuthenticator{}
	}

	return admin.NewController(
		auth,
		admin.NewAPIClient(config.ServerURL),
		admin.NewFileSessionStore(filepath.Join(dir, "session.json")),
	), nil
}

// resumedController builds a controller and requires a restored session.
func resumedController(ctx context.Context) (*admin.Controller, error) {
	ctrl, err := newController()
	if err != nil {
		return nil, err
	}

	restored, err := ctrl.Resume(ctx)
	if err != nil {
		return nil, err
	}
	if !restored {
		return nil, admin.ErrNotLoggedIn
	}
	return ctrl, nil
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.config/spicehaven/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "storefront API base URL")
	rootCmd.PersistentFlags().StringVar(&gatewayURL, "gateway-url", "", "auth gateway base URL")
	rootCmd.PersistentFlags().StringVar(&anonKey, "anon-key", "", "auth gateway public key")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (prompted if omitted)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted if omitted)")

	addCmd.Flags().StringVar(&addName, "name", "", "product name (required)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "product description")
	addCmd.Flags().StringVar(&addImageURL, "image-url", "", "product image URL")
	_ = addCmd.MarkFlagRequired("name")

	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "skip the confirmation prompt")

	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd, listCmd, addCmd, deleteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
