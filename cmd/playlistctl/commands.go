package main

import (
	"github.com/urfave/cli/v3"

	"github.com/TamarElitzur/youtubePlaylists/internal/core/domain"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "playlistctl.toml",
	}
}

func playlistFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "playlist",
		Aliases: []string{"p"},
		Usage:   "Playlist name",
		Value:   domain.FavoritesPlaylist,
	}
}

func videoIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "video-id",
		Aliases:  []string{"v"},
		Usage:    "YouTube video id (or audio:<name> for uploads)",
		Required: true,
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Write an example configuration file",
		Action: r.Init,
	}
}

func authCommands(r *Runner) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "register",
			Usage: "Create an account",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
				&cli.StringFlag{Name: "password", Required: true},
				&cli.StringFlag{Name: "confirm", Usage: "Password confirmation", Required: true},
				&cli.StringFlag{Name: "first-name", Required: true},
				&cli.StringFlag{Name: "image-url", Usage: "Profile image URL", Required: true},
			},
			Action: r.Register,
		},
		{
			Name:  "login",
			Usage: "Log in and remember the session",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
				&cli.StringFlag{Name: "password", Required: true},
			},
			Action: r.Login,
		},
		{
			Name:   "logout",
			Usage:  "Forget the session",
			Action: r.Logout,
		},
		{
			Name:   "whoami",
			Usage:  "Show the logged-in user",
			Action: r.WhoAmI,
		},
	}
}

func playlistCommands(r *Runner) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "playlists",
			Usage:  "List your playlists",
			Flags:  []cli.Flag{jsonFlag()},
			Action: r.Playlists,
		},
		{
			Name:  "show",
			Usage: "Show the tracks of a playlist",
			Flags: []cli.Flag{
				playlistFlag(),
				&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Only titles containing this text"},
				&cli.StringFlag{Name: "sort", Usage: "none, title or rating", Value: "none"},
				jsonFlag(),
			},
			Action: r.Show,
		},
		{
			Name:  "add",
			Usage: "Add a video to a playlist",
			Flags: []cli.Flag{
				playlistFlag(),
				videoIDFlag(),
				&cli.StringFlag{Name: "title", Aliases: []string{"t"}},
				&cli.StringFlag{Name: "thumbnail"},
			},
			Action: r.Add,
		},
		{
			Name:  "rate",
			Usage: "Rate a track from 0 to 5",
			Flags: []cli.Flag{
				playlistFlag(),
				videoIDFlag(),
				&cli.IntFlag{Name: "rating", Aliases: []string{"r"}, Required: true},
			},
			Action: r.Rate,
		},
		{
			Name:   "remove",
			Usage:  "Remove a track from a playlist",
			Flags:  []cli.Flag{playlistFlag(), videoIDFlag()},
			Action: r.Remove,
		},
		{
			Name:  "create",
			Usage: "Create an empty playlist",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "name"},
			},
			Action: r.Create,
		},
		{
			Name:  "upload",
			Usage: "Upload an audio file into a playlist",
			Flags: []cli.Flag{playlistFlag()},
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "file"},
			},
			Action: r.Upload,
		},
		{
			Name:  "search",
			Usage: "Search YouTube for videos",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "max", Aliases: []string{"n"}, Value: 10},
				jsonFlag(),
			},
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "query"},
			},
			Action: r.Search,
		},
	}
}
