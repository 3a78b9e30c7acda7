// ABOUTME: Authentication commands: login, logout, whoami, signup, token and oauth
// ABOUTME: All token writes go through the session store

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/redirect"
	"github.com/chikadol/rev-frontend-sub000/internal/session"
)

var (
	loginEmail     string
	loginPassword  string
	signupUsername string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	Long: `Log in with email and password and store the issued tokens.

Without --email/--password an interactive form is shown.`,
	Args: cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		email, password, err := promptCredentials(loginEmail, loginPassword)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
		return runLogin(ctx, w, email, password)
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	Run: runCommand(func(_ context.Context, w io.Writer, _ []string) int {
		return runLogout(w)
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runWhoami(ctx, w)
	}),
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runSignup(ctx, w, loginEmail, loginPassword, signupUsername)
	}),
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect or refresh the stored tokens",
}

var tokenRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the refresh token for a new pair",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runTokenRefresh(ctx, w)
	}),
}

var tokenInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Decode the stored access token (no network call)",
	Args:  cobra.NoArgs,
	Run: runCommand(func(_ context.Context, w io.Writer, _ []string) int {
		return runTokenInspect(w)
	}),
}

var oauthCmd = &cobra.Command{
	Use:   "oauth",
	Short: "Social login through Google, Naver or Kakao",
}

var oauthLinksCmd = &cobra.Command{
	Use:   "links",
	Short: "Print the backend OAuth login URLs",
	Args:  cobra.NoArgs,
	Run: runCommand(func(_ context.Context, w io.Writer, _ []string) int {
		return runOAuthLinks(w)
	}),
}

var oauthCallbackCmd = &cobra.Command{
	Use:   "callback <url>",
	Short: "Store the tokens from an OAuth callback URL",
	Long: `Store the tokens from an OAuth callback URL.

After logging in through a link from 'rev oauth links', copy the URL the
browser was redirected to and pass it here.`,
	Args: cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runOAuthCallback(ctx, w, args[0])
	}),
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	signupCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	signupCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	signupCmd.Flags().StringVar(&signupUsername, "username", "", "Display name")

	tokenCmd.AddCommand(tokenRefreshCmd, tokenInspectCmd)
	oauthCmd.AddCommand(oauthLinksCmd, oauthCallbackCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, signupCmd, tokenCmd, oauthCmd)
}

// runLogin authenticates and returns exit code
func runLogin(ctx context.Context, w io.Writer, email, password string) int {
	return withEnv(w, func(env *appEnv) int {
		snap, err := env.session.Login(ctx, email, password)
		if err != nil {
			var authErr *session.AuthenticationError
			if errors.As(err, &authErr) {
				fmt.Fprintf(w, "Login failed: %s\n", authErr.Message)
				return exitFailed
			}
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}

		printOutput(w, snap.User, func() string {
			return fmt.Sprintf("Logged in as %s", describeUser(snap.User))
		})
		return exitOK
	})
}

// runLogout clears the stored tokens
func runLogout(w io.Writer) int {
	return withEnv(w, func(env *appEnv) int {
		env.session.Logout()
		fmt.Fprintln(w, "Logged out")
		return exitOK
	})
}

// whoamiOutput is the JSON shape of whoami
type whoamiOutput struct {
	Backend string               `json:"backend"`
	User    *session.UserProfile `json:"user"`
	Expires string               `json:"token_expires,omitempty"`
}

// runWhoami resolves the session from stored tokens
func runWhoami(ctx context.Context, w io.Writer) int {
	return withEnv(w, func(env *appEnv) int {
		snap := env.session.Initialize(ctx)
		if !snap.IsAuthenticated {
			fmt.Fprintln(w, "Not logged in")
			return exitLoginRequired
		}

		out := whoamiOutput{Backend: env.cfg.APIURL, User: snap.User}
		if claims, err := env.tokens.AccessClaims(); err == nil && !claims.ExpiresAt.IsZero() {
			out.Expires = claims.ExpiresAt.Format("2006-01-02T15:04:05Z07:00")
		}

		printOutput(w, out, func() string {
			roles := "-"
			if len(snap.User.Roles) > 0 {
				roles = strings.Join(snap.User.Roles, ", ")
			}
			text := fmt.Sprintf(`Backend:  %s
User:     %s
User ID:  %s
Roles:    %s`, env.cfg.APIURL, snap.User.Username, snap.User.UserID, roles)
			if claims, err := env.tokens.AccessClaims(); err == nil && !claims.ExpiresAt.IsZero() {
				text += "\nExpires:  " + untilOrAgo(claims.ExpiresAt)
			}
			return text
		})
		return exitOK
	})
}

// runSignup registers a new account
func runSignup(ctx context.Context, w io.Writer, email, password, username string) int {
	if email == "" || password == "" || username == "" {
		fmt.Fprintln(w, "Error: --email, --password and --username are required")
		return exitError
	}
	return withEnv(w, func(env *appEnv) int {
		req := client.SignupRequest{Email: email, Password: password, Username: username}
		if err := env.api.Register(ctx, req); err != nil {
			return env.fail(w, err)
		}
		fmt.Fprintf(w, "Account created for %s. Run 'rev login' to sign in.\n", email)
		return exitOK
	})
}

// runTokenRefresh swaps the refresh token for a new pair
func runTokenRefresh(ctx context.Context, w io.Writer) int {
	return withEnv(w, func(env *appEnv) int {
		refresh := env.tokens.RefreshToken()
		if refresh == "" {
			fmt.Fprintln(w, "Error: no refresh token stored. Run 'rev login' first.")
			return exitLoginRequired
		}

		pair, err := env.api.Refresh(ctx, refresh)
		if err != nil {
			return env.fail(w, err)
		}
		snap, err := env.session.AdoptTokens(ctx, pair)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitLoginRequired
		}
		fmt.Fprintf(w, "Tokens refreshed for %s\n", describeUser(snap.User))
		return exitOK
	})
}

// runTokenInspect decodes the access token without contacting the backend
func runTokenInspect(w io.Writer) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		claims, err := env.tokens.AccessClaims()
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}

		printOutput(w, claims, func() string {
			roles := "-"
			if len(claims.Roles) > 0 {
				roles = strings.Join(claims.Roles, ", ")
			}
			return fmt.Sprintf(`Subject:  %s
Roles:    %s
Issued:   %s
Expires:  %s`, claims.Subject, roles, untilOrAgo(claims.IssuedAt), untilOrAgo(claims.ExpiresAt))
		})
		return exitOK
	})
}

// runOAuthLinks prints one login URL per provider
func runOAuthLinks(w io.Writer) int {
	base := GetAPIURL()
	links := make(map[string]string, len(redirect.OAuthProviders))
	var lines []string
	for _, p := range redirect.OAuthProviders {
		url := redirect.LoginURL(base, p)
		links[string(p)] = url
		lines = append(lines, fmt.Sprintf("%-7s %s", p.Label()+":", url))
	}
	printOutput(w, links, func() string { return strings.Join(lines, "\n") })
	return exitOK
}

// runOAuthCallback adopts the tokens carried by a callback URL
func runOAuthCallback(ctx context.Context, w io.Writer, rawURL string) int {
	res, err := redirect.ParseOAuthCallback(rawURL)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFailed
	}
	return withEnv(w, func(env *appEnv) int {
		snap, err := env.session.AdoptTokens(ctx, res.Tokens)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitLoginRequired
		}
		via := ""
		if res.Provider != "" {
			via = " via " + res.Provider.Label()
		}
		fmt.Fprintf(w, "Logged in as %s%s\n", describeUser(snap.User), via)
		return exitOK
	})
}

func describeUser(u *session.UserProfile) string {
	if u == nil {
		return "unknown user"
	}
	if len(u.Roles) == 0 {
		return u.Username
	}
	return fmt.Sprintf("%s (%s)", u.Username, strings.Join(u.Roles, ", "))
}
