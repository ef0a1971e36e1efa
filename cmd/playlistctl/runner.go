package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/TamarElitzur/youtubePlaylists/internal/client"
	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

// Runner holds the dependencies for CLI commands and provides one method per
// command action.
type Runner struct {
	config     *Config
	httpClient *http.Client
	api        *client.API
	sessions   *client.SessionFile
	logger     zerolog.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner. A nil
// Config is loaded from the --config flag on first use.
type RunnerOpts struct {
	Config     *Config
	HTTPClient *http.Client
	Logger     zerolog.Logger
	Output     io.Writer
}

func NewRunner(opts RunnerOpts) *Runner {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{initCommand(r)}
	commands = append(commands, authCommands(r)...)
	commands = append(commands, playlistCommands(r)...)
	return commands
}

// setup resolves configuration and builds the API client once.
func (r *Runner) setup(cmd *cli.Command) error {
	if r.api != nil {
		return nil
	}
	if r.config == nil {
		r.config = DefaultConfig()
		path := cmd.String("config")
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return err
			}
			r.config = loaded
		}
	}
	if r.httpClient == nil {
		r.httpClient = &http.Client{Timeout: r.config.RequestTimeout()}
	}
	r.api = client.NewAPI(r.config.Server.URL, r.httpClient)
	r.sessions = client.NewSessionFile(r.config.SessionPath())
	r.logger.Debug().Str("server", r.config.Server.URL).Str("session", r.sessions.Path()).Msg("client configured")
	return nil
}

// startSession loads the saved session and mirrors the user's playlists.
func (r *Runner) startSession(ctx context.Context, cmd *cli.Command) (*client.SessionCache, error) {
	if err := r.setup(cmd); err != nil {
		return nil, err
	}
	session, err := r.sessions.Load()
	if err != nil {
		return nil, err
	}
	cache := client.NewSessionCache(r.api)
	if err := cache.Start(ctx, *session); err != nil {
		return nil, err
	}
	return cache, nil
}

func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := WriteExampleConfig(path); err != nil {
		return err
	}
	return r.writePlain("wrote %s\n", path)
}

func (r *Runner) Register(ctx context.Context, cmd *cli.Command) error {
	if err := r.setup(cmd); err != nil {
		return err
	}
	password := cmd.String("password")
	if err := client.ValidatePassword(password, cmd.String("confirm")); err != nil {
		return err
	}

	user, err := r.api.Register(ctx, cmd.String("username"), password, cmd.String("first-name"), cmd.String("image-url"))
	if err != nil {
		return err
	}
	return r.writePlain("Registration successful. You can now log in as %s.\n", user.Username)
}

func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	if err := r.setup(cmd); err != nil {
		return err
	}
	session, err := r.api.Login(ctx, cmd.String("username"), cmd.String("password"))
	if err != nil {
		return err
	}
	if err := r.sessions.Save(*session); err != nil {
		return err
	}
	return r.writePlain("Welcome, %s!\n", session.FirstName)
}

// Logout always clears the local session, even when the server is down.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	if err := r.setup(cmd); err != nil {
		return err
	}
	if session, err := r.sessions.Load(); err == nil {
		r.api.SetToken(session.Token)
		if err := r.api.Logout(ctx); err != nil {
			r.logger.Debug().Err(err).Msg("logout request failed")
		}
	}
	if err := r.sessions.Clear(); err != nil {
		return err
	}
	return r.writePlain("Logged out\n")
}

func (r *Runner) WhoAmI(ctx context.Context, cmd *cli.Command) error {
	if err := r.setup(cmd); err != nil {
		return err
	}
	session, err := r.sessions.Load()
	if err != nil {
		return err
	}
	return r.writePlain("%s (%s)\n", session.Username, session.FirstName)
}

func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.startSession(ctx, cmd)
	if err != nil {
		return err
	}

	names := cache.PlaylistNames()
	if cmd.Bool("json") {
		return r.writeJSON(names, false)
	}
	for _, name := range names {
		if err := cache.Select(name); err != nil {
			return err
		}
		if err := r.writePlain("%s (%d)\n", name, len(cache.View())); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	mode, err := client.ParseSortMode(cmd.String("sort"))
	if err != nil {
		return err
	}
	cache, err := r.startSession(ctx, cmd)
	if err != nil {
		return err
	}
	if err := cache.Select(cmd.String("playlist")); err != nil {
		return err
	}
	cache.UpdateSearch(cmd.String("search"))
	cache.SortBy(mode)

	tracks := cache.View()
	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}
	if len(tracks) == 0 {
		return r.writePlain("%s is empty\n", cache.Selected())
	}

	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RATING\tTITLE\tVIDEO ID\tSOURCE")
	for _, t := range tracks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", stars(t.Rating), t.Title, t.VideoID, trackSource(t))
	}
	return tw.Flush()
}

func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.startSession(ctx, cmd)
	if err != nil {
		return err
	}
	playlist := cmd.String("playlist")
	track, err := cache.AddTrack(ctx, playlist, domain.Track{
		VideoID:   cmd.String("video-id"),
		Title:     cmd.String("title"),
		Thumbnail: cmd.String("thumbnail"),
	})
	if err != nil {
		return err
	}
	return r.writePlain("Video added to %s: %s\n", playlist, track.VideoID)
}

func (r *Runner) Rate(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.startSession(ctx, cmd)
	if err != nil {
		return err
	}
	stored, err := cache.UpdateRating(ctx, cmd.String("playlist"), cmd.String("video-id"), int(cmd.Int("rating")))
	if err != nil {
		return err
	}
	return r.writePlain("Rating updated: %s\n", stars(stored))
}

func (r *Runner) Remove(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.startSession(ctx, cmd)
	if err != nil {
		return err
	}
	if err := cache.RemoveTrack(ctx, cmd.String("playlist"), cmd.String("video-id")); err != nil {
		return err
	}
	return r.writePlain("Video removed\n")
}

func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: playlist name", domain.ErrMissingField)
	}
	cache, err := r.startSession(ctx, cmd)
	if err != nil {
		return err
	}
	if err := cache.CreatePlaylist(ctx, name); err != nil {
		return err
	}
	return r.writePlain("Playlist created: %s\n", name)
}

func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file to upload", domain.ErrMissingField)
	}
	cache, err := r.startSession(ctx, cmd)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	track, err := cache.Upload(ctx, cmd.String("playlist"), filepath.Base(path), f)
	if err != nil {
		return err
	}
	return r.writePlain("Audio uploaded: %s (%s)\n", track.Title, track.VideoID)
}

func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query", domain.ErrMissingField)
	}
	if err := r.setup(cmd); err != nil {
		return err
	}

	items, err := r.api.Search(ctx, query, int(cmd.Int("max")))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	// Mark results already saved, when a session is available.
	var cache *client.SessionCache
	if session, err := r.sessions.Load(); err == nil {
		cache = client.NewSessionCache(r.api)
		if err := cache.Start(ctx, *session); err != nil {
			r.logger.Debug().Err(err).Msg("could not load playlists for search marks")
			cache = nil
		}
	}

	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VIDEO ID\tTITLE\tDURATION\tVIEWS\tSAVED")
	for _, item := range items {
		saved := ""
		if cache != nil && cache.InAnyPlaylist(item.VideoID) {
			saved = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", item.VideoID, item.Title, item.DurationText, item.ViewsText, saved)
	}
	return tw.Flush()
}

func stars(rating int) string {
	rating = domain.ClampRating(rating)
	return strings.Repeat("★", rating) + strings.Repeat("☆", domain.MaxRating-rating)
}

func trackSource(t domain.Track) string {
	if t.Type == domain.TrackAudioFile {
		return "audio"
	}
	return "youtube"
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
