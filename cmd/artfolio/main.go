// Command artfolio is a terminal front end for the art catalog backend:
// artist search and detail browsing, account management and a personal
// favorites list kept in sync with the server. Session cookies and the
// signed-in user persist under the data directory, so login survives
// between invocations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"artfolio/internal/account"
	"artfolio/internal/app"
	"artfolio/shared/go/logging"
	"artfolio/shared/go/models"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	a, err := app.New(app.Config{
		BaseURL: cfg.BaseURL,
		DataDir: cfg.DataDir,
		Timeout: cfg.Timeout,
	}, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout+5*time.Second)
	defer cancel()

	if err := run(ctx, a, cfg, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		flushNotice(a)
		os.Exit(1)
	}
	flushNotice(a)
}

func run(ctx context.Context, a *app.App, cfg config, command string, args []string) error {
	switch command {
	case "search":
		return runSearch(a, cfg, arg(args, "keyword"))
	case "artist":
		return runArtist(ctx, a, arg(args, "artist id"))
	case "artworks":
		return runArtworks(ctx, a, arg(args, "artist id"))
	case "categories":
		return runCategories(ctx, a, arg(args, "artwork id"))
	case "similar":
		return runSimilar(ctx, a, arg(args, "artist id"))
	case "login":
		return runLogin(ctx, a, args)
	case "register":
		return runRegister(ctx, a, args)
	case "logout":
		return a.Session.Logout(ctx)
	case "delete-account":
		return a.Session.Delete(ctx)
	case "favorites":
		return runFavorites(ctx, a)
	case "favorite":
		return runToggleFavorite(ctx, a, arg(args, "artist id"))
	case "whoami":
		return runWhoami(a)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func arg(args []string, name string) string {
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "missing %s argument\n", name)
		os.Exit(2)
	}
	return args[0]
}

// runSearch goes through the search controller so the CLI exercises the
// same query path as an interactive screen: subscribe, set the query, wait
// for the result set to land.
func runSearch(a *app.App, cfg config, keyword string) error {
	ch, cancel := a.Search.Results().Subscribe()
	defer cancel()
	<-ch // value current at subscription time

	a.Search.SetQuery(keyword)

	select {
	case artists := <-ch:
		if len(artists) == 0 {
			fmt.Println("No results.")
			return nil
		}
		for _, artist := range artists {
			fmt.Printf("%s  %s", artist.ID, artist.Name)
			if artist.Nationality != "" {
				fmt.Printf("  (%s)", artist.Nationality)
			}
			fmt.Println()
		}
		return nil
	case <-time.After(cfg.Timeout + 5*time.Second):
		return errors.New("search timed out")
	}
}

func runArtist(ctx context.Context, a *app.App, id string) error {
	artist := a.Catalog.GetArtist(ctx, id)
	if artist == nil {
		fmt.Println("Artist not found.")
		return nil
	}
	fmt.Println(artist.Name)
	if artist.Nationality != "" || artist.Birthday != "" {
		fmt.Printf("%s, %s", artist.Nationality, lifespan(artist.Birthday, artist.Deathday))
		fmt.Println()
	}
	if artist.Biography != "" {
		fmt.Println()
		fmt.Println(artist.Biography)
	}
	if a.Favorites.IsFavorite(id) {
		fmt.Println()
		fmt.Println("★ In your favorites")
	}
	return nil
}

func runArtworks(ctx context.Context, a *app.App, artistID string) error {
	artworks := a.Catalog.GetArtworks(ctx, artistID)
	if len(artworks) == 0 {
		fmt.Println("No artworks.")
		return nil
	}
	for _, artwork := range artworks {
		fmt.Printf("%s  %s\n", artwork.ID, artwork.Title)
	}
	return nil
}

func runCategories(ctx context.Context, a *app.App, artworkID string) error {
	categories := a.Catalog.GetCategories(ctx, artworkID)
	if len(categories) == 0 {
		fmt.Println("No categories.")
		return nil
	}
	for _, category := range categories {
		fmt.Printf("%s  %s\n", category.ID, category.Name)
	}
	return nil
}

func runSimilar(ctx context.Context, a *app.App, artistID string) error {
	artists := a.Catalog.GetSimilarArtists(ctx, artistID)
	if len(artists) == 0 {
		fmt.Println("No similar artists.")
		return nil
	}
	for _, artist := range artists {
		fmt.Printf("%s  %s\n", artist.ID, artist.Name)
	}
	return nil
}

func runLogin(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}

	user, err := a.Session.Login(ctx, *email, *password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return errors.New("username or password is incorrect")
		}
		return err
	}
	fmt.Printf("Signed in as %s <%s>\n", user.Fullname, user.Email)
	return nil
}

func runRegister(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)
	if *name == "" || *email == "" || *password == "" {
		return errors.New("register requires -name, -email and -password")
	}

	user, err := a.Session.Register(ctx, *name, *email, *password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return errors.New("registration was rejected")
		}
		return err
	}
	fmt.Printf("Registered %s <%s>\n", user.Fullname, user.Email)
	return nil
}

func runFavorites(ctx context.Context, a *app.App) error {
	if err := a.Favorites.Load(ctx); err != nil {
		return err
	}
	favorites := a.Favorites.List().Get()
	if len(favorites) == 0 {
		fmt.Println("No favorites yet.")
		return nil
	}
	now := time.Now()
	for _, fav := range favorites {
		fmt.Printf("%s  %s", fav.ArtistID, fav.ArtistName)
		if fav.Nationality != "" {
			fmt.Printf("  (%s)", fav.Nationality)
		}
		fmt.Printf("  — %s\n", models.TimeAgo(fav.AddedAt, now))
	}
	return nil
}

// runToggleFavorite refreshes from the server first so toggling acts on
// authoritative membership rather than an empty fresh-process state.
func runToggleFavorite(ctx context.Context, a *app.App, artistID string) error {
	if err := a.Favorites.Load(ctx); err != nil {
		return err
	}
	return a.Favorites.Toggle(ctx, artistID)
}

func runWhoami(a *app.App) error {
	user := a.Session.User().Get()
	if user == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s <%s>\n", user.Fullname, user.Email)
	return nil
}

// flushNotice prints the transient notice a GUI would show as a snackbar.
func flushNotice(a *app.App) {
	if n := a.Bus.Current(); n.Visible {
		marker := "✓"
		if !n.Success {
			marker = "✗"
		}
		fmt.Printf("%s %s\n", marker, n.Message)
	}
}

func lifespan(birthday, deathday string) string {
	switch {
	case birthday == "" && deathday == "":
		return ""
	case deathday == "":
		return birthday + "–"
	default:
		return birthday + "–" + deathday
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: artfolio <command> [arguments]

Catalog:
  search <keyword>        search artists (3+ characters)
  artist <id>             show artist details
  artworks <id>           list an artist's artworks
  categories <artworkId>  list an artwork's categories
  similar <id>            list similar artists

Account:
  register -name <n> -email <e> -password <p>
  login -email <e> -password <p>
  logout
  delete-account
  whoami

Favorites:
  favorites               list your favorites
  favorite <artistId>     toggle an artist in your favorites

Configuration (environment or .env):
  ARTFOLIO_BASE_URL   backend root URL (required)
  ARTFOLIO_DATA_DIR   local state directory (default ~/.artfolio)
  ARTFOLIO_TIMEOUT    HTTP timeout (default 30s)
`)
}
