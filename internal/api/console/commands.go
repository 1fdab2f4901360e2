package console

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/19tube/internal/app/session"
	"github.com/osa030/19tube/internal/app/undo"
	"github.com/osa030/19tube/internal/domain/video"
)

// command describes one shell command. maxArgs < 0 means no upper bound.
type command struct {
	name    string
	usage   string
	help    string
	minArgs int
	maxArgs int
	run     func(s *Shell, args []string) bool
}

func commandTable() []command {
	return []command{
		{"NUMBER_OF_VIDEOS", "NUMBER_OF_VIDEOS", "Shows how many videos are in the library.", 0, 0, (*Shell).numberOfVideos},
		{"SHOW_ALL_VIDEOS", "SHOW_ALL_VIDEOS", "Lists all videos from the library.", 0, 0, (*Shell).showAllVideos},
		{"PLAY", "PLAY <video_id>", "Plays specified video.", 1, 1, (*Shell).play},
		{"PLAY_RANDOM", "PLAY_RANDOM", "Plays a random video from the library.", 0, 0, (*Shell).playRandom},
		{"STOP", "STOP", "Stop the current video.", 0, 0, (*Shell).stop},
		{"PAUSE", "PAUSE", "Pause the current video.", 0, 0, (*Shell).pause},
		{"CONTINUE", "CONTINUE", "Resume the current paused video.", 0, 0, (*Shell).resume},
		{"SHOW_PLAYING", "SHOW_PLAYING", "Displays the title, video_id, video tags and paused status of the video that is currently playing (or paused).", 0, 0, (*Shell).showPlaying},
		{"CREATE_PLAYLIST", "CREATE_PLAYLIST <playlist_name>", "Creates a new (empty) playlist with the provided name.", 1, 1, (*Shell).createPlaylist},
		{"ADD_TO_PLAYLIST", "ADD_TO_PLAYLIST <playlist_name> <video_id>", "Adds the requested video to the playlist.", 2, 2, (*Shell).addToPlaylist},
		{"REMOVE_FROM_PLAYLIST", "REMOVE_FROM_PLAYLIST <playlist_name> <video_id>", "Removes the specified video from the specified playlist.", 2, 2, (*Shell).removeFromPlaylist},
		{"CLEAR_PLAYLIST", "CLEAR_PLAYLIST <playlist_name>", "Removes all videos from the playlist.", 1, 1, (*Shell).clearPlaylist},
		{"DELETE_PLAYLIST", "DELETE_PLAYLIST <playlist_name>", "Deletes the playlist.", 1, 1, (*Shell).deletePlaylist},
		{"SHOW_PLAYLIST", "SHOW_PLAYLIST <playlist_name>", "List all the videos in this playlist.", 1, 1, (*Shell).showPlaylist},
		{"SHOW_ALL_PLAYLISTS", "SHOW_ALL_PLAYLISTS", "Display all the available playlists.", 0, 0, (*Shell).showAllPlaylists},
		{"PLAY_PLAYLIST", "PLAY_PLAYLIST <playlist_name>", "Plays the playlist from its first video.", 1, 1, (*Shell).playPlaylist},
		{"NEXT", "NEXT", "Skips to the next video in the current playlist.", 0, 0, (*Shell).next},
		{"SHOW_CURRENT_PLAYLIST", "SHOW_CURRENT_PLAYLIST", "Shows the current playlist and position.", 0, 0, (*Shell).showCurrentPlaylist},
		{"SEARCH_VIDEOS", "SEARCH_VIDEOS <search_term>", "Display all the videos whose titles contain the search_term.", 1, 1, (*Shell).searchVideos},
		{"SEARCH_VIDEOS_WITH_TAG", "SEARCH_VIDEOS_WITH_TAG <tag_name>", "Display all videos whose tags contains the provided tag.", 1, 1, (*Shell).searchVideosWithTag},
		{"FLAG_VIDEO", "FLAG_VIDEO <video_id> [flag_reason]", "Mark a video as flagged.", 1, -1, (*Shell).flagVideo},
		{"ALLOW_VIDEO", "ALLOW_VIDEO <video_id>", "Removes a flag from a video.", 1, 1, (*Shell).allowVideo},
		{"RATE", "RATE <video_id> <rating>", "Rates a video from 1 to 5.", 2, 2, (*Shell).rate},
		{"SHOW_RATING", "SHOW_RATING <video_id>", "Shows the average rating of a video.", 1, 1, (*Shell).showRating},
		{"SHOW_VIDEOS_BY_RATING", "SHOW_VIDEOS_BY_RATING", "Lists all videos by average rating.", 0, 0, (*Shell).showVideosByRating},
		{"UNDO", "UNDO", "Undoes the last command.", 0, 0, (*Shell).undo},
		{"HELP", "HELP", "Displays help.", 0, 0, (*Shell).help},
		{"EXIT", "EXIT", "Terminates the program execution.", 0, 0, (*Shell).exit},
	}
}

func (s *Shell) numberOfVideos(_ []string) bool {
	s.printf("%d videos in the library", s.engine.NumberOfVideos())
	return true
}

func (s *Shell) showAllVideos(_ []string) bool {
	s.printf("Here's a list of all available videos:")
	for _, v := range s.engine.Videos() {
		s.printf("  %s%s", videoInfo(v), flaggedSuffix(v))
	}
	return true
}

func (s *Shell) play(args []string) bool {
	if _, err := s.engine.Play(args[0]); err != nil {
		s.fail("Cannot play video", err)
	}
	return true
}

func (s *Shell) playRandom(_ []string) bool {
	if _, err := s.engine.PlayRandom(); err != nil {
		if errors.Is(err, session.ErrNoVideosAvailable) {
			s.printf("No videos available")
			return true
		}
		s.fail("Cannot play video", err)
	}
	return true
}

func (s *Shell) stop(_ []string) bool {
	if _, err := s.engine.Stop(); err != nil {
		s.fail("Cannot stop video", err)
	}
	return true
}

func (s *Shell) pause(_ []string) bool {
	res, err := s.engine.Pause()
	if err != nil {
		s.fail("Cannot pause video", err)
		return true
	}
	if res.Status == session.StatusAlreadyPaused {
		s.printf("Video already paused: %s", res.Video.Title)
	}
	return true
}

func (s *Shell) resume(_ []string) bool {
	if _, err := s.engine.Resume(); err != nil {
		s.fail("Cannot continue video", err)
	}
	return true
}

func (s *Shell) showPlaying(_ []string) bool {
	np, ok := s.engine.NowPlaying()
	if !ok {
		s.printf("No video is currently playing")
		return true
	}
	if np.Paused {
		s.printf("Currently playing: %s - PAUSED", videoInfo(np.Video))
	} else {
		s.printf("Currently playing: %s", videoInfo(np.Video))
	}
	return true
}

func (s *Shell) createPlaylist(args []string) bool {
	res, err := s.engine.CreatePlaylist(args[0])
	if err != nil {
		s.fail("Cannot create playlist", err)
		return true
	}
	s.printf("Successfully created new playlist: %s", res.Playlist.Name)
	return true
}

func (s *Shell) addToPlaylist(args []string) bool {
	res, err := s.engine.AddToPlaylist(args[0], args[1])
	if err != nil {
		s.fail("Cannot add video to "+args[0], err)
		return true
	}
	s.printf("Added video to %s: %s", args[0], res.Video.Title)
	return true
}

func (s *Shell) removeFromPlaylist(args []string) bool {
	res, err := s.engine.RemoveFromPlaylist(args[0], args[1])
	if err != nil {
		s.fail("Cannot remove video from "+args[0], err)
		return true
	}
	s.printf("Removed video from %s: %s", args[0], res.Video.Title)
	return true
}

func (s *Shell) clearPlaylist(args []string) bool {
	if _, err := s.engine.ClearPlaylist(args[0]); err != nil {
		s.fail("Cannot clear playlist "+args[0], err)
		return true
	}
	s.printf("Successfully removed all videos from %s", args[0])
	return true
}

func (s *Shell) deletePlaylist(args []string) bool {
	if _, err := s.engine.DeletePlaylist(args[0]); err != nil {
		s.fail("Cannot delete playlist "+args[0], err)
		return true
	}
	s.printf("Deleted playlist: %s", args[0])
	return true
}

func (s *Shell) showPlaylist(args []string) bool {
	view, err := s.engine.Playlist(args[0])
	if err != nil {
		s.fail("Cannot show playlist "+args[0], err)
		return true
	}

	s.printf("Showing playlist: %s", args[0])
	if len(view.Videos) == 0 {
		s.printf("  No videos here yet")
		return true
	}
	for _, v := range view.Videos {
		s.printf("  %s%s", videoInfo(v), flaggedSuffix(v))
	}
	return true
}

func (s *Shell) showAllPlaylists(_ []string) bool {
	names := s.engine.Playlists()
	if len(names) == 0 {
		s.printf("No playlists exist yet")
		return true
	}
	s.printf("Showing all playlists:")
	for _, name := range names {
		s.printf("  %s", name)
	}
	return true
}

func (s *Shell) playPlaylist(args []string) bool {
	if _, err := s.engine.PlayPlaylist(args[0]); err != nil {
		s.fail("Cannot play playlist "+args[0], err)
	}
	return true
}

func (s *Shell) next(_ []string) bool {
	if _, err := s.engine.NextInPlaylist(); err != nil {
		s.fail("Cannot skip to next video", err)
	}
	return true
}

func (s *Shell) showCurrentPlaylist(args []string) bool {
	np, ok := s.engine.NowPlaying()
	if !ok || np.Playlist == "" {
		s.printf("No playlist is currently playing")
		return true
	}
	s.printf("Current playlist: %s - %d/%d", np.Playlist, np.Position, np.Total)
	return s.showPlaying(args)
}

func (s *Shell) searchVideos(args []string) bool {
	s.offerSelection(args[0], s.engine.Search(args[0]))
	return true
}

func (s *Shell) searchVideosWithTag(args []string) bool {
	s.offerSelection(args[0], s.engine.SearchTag(args[0]))
	return true
}

// offerSelection lists search results and plays the one the user picks.
func (s *Shell) offerSelection(query string, results []*video.Video) {
	if len(results) == 0 {
		s.printf("No search results for %s", query)
		return
	}

	s.printf("Here are the results for %s:", query)
	candidates := make([]string, len(results))
	for i, v := range results {
		candidates[i] = v.ID
		s.printf("  %d) %s", i+1, videoInfo(v))
	}
	s.printf("Would you like to play any of the above? If yes, specify the number of the video.")
	s.printf("If your answer is not a valid number, we will assume it's a no.")

	token, _ := s.readLine()
	if _, err := s.engine.PlayFromSearchSelection(candidates, token); err != nil {
		s.fail("Cannot play video", err)
	}
}

func (s *Shell) flagVideo(args []string) bool {
	res, err := s.engine.Flag(args[0], strings.Join(args[1:], " "))
	if err != nil {
		s.fail("Cannot flag video", err)
		return true
	}
	s.printf("Successfully flagged video: %s (reason: %s)", res.Video.Title, res.Reason)
	return true
}

func (s *Shell) allowVideo(args []string) bool {
	res, err := s.engine.Allow(args[0])
	if err != nil {
		s.fail("Cannot remove flag from video", err)
		return true
	}
	s.printf("Successfully removed flag from video: %s", res.Video.Title)
	return true
}

func (s *Shell) rate(args []string) bool {
	res, err := s.engine.Rate(args[0], args[1])
	if err != nil {
		if errors.Is(err, session.ErrInvalidRating) {
			s.printf("%s", describe(err))
			return true
		}
		s.fail("Cannot rate video", err)
		return true
	}
	s.printf("Successfully rated video: %s, Current average rating: %s", res.Video.Title, formatRating(res.Rating))
	return true
}

func (s *Shell) showRating(args []string) bool {
	v, err := s.engine.Rating(args[0])
	if err != nil {
		s.fail("Cannot show video rating", err)
		return true
	}
	s.printf("%s", ratingLine(v))
	return true
}

func (s *Shell) showVideosByRating(_ []string) bool {
	s.printf("Here's a list of all available videos:")
	for _, v := range s.engine.VideosByRating() {
		s.printf("%s", ratingLine(v))
	}
	return true
}

func (s *Shell) undo(_ []string) bool {
	res, err := s.engine.Undo()
	switch {
	case errors.Is(err, session.ErrNothingToUndo):
		s.printf("You have just started YT, there is no command to undo")
		return true
	case errors.Is(err, session.ErrConsecutiveUndo):
		s.printf("Cannot undo command consecutively and one has already been undone")
		return true
	case err != nil:
		s.fail("Cannot undo command", err)
		return true
	}

	switch a := res.Reverted.(type) {
	case undo.CreatePlaylist:
		s.printf("Deleted playlist: %s", a.Name)
	case undo.AddToPlaylist:
		s.printf("Removed video from %s: %s", a.Playlist, res.Video.Title)
	case undo.RemoveFromPlaylist:
		s.printf("Added video to %s: %s", a.Playlist, res.Video.Title)
	case undo.ClearPlaylist:
		s.printf("Videos have been added back to playlist: %s", res.Playlist.Name)
	case undo.DeletePlaylist:
		s.printf("Successfully created new playlist: %s", res.Playlist.Name)
		if !res.Playlist.IsEmpty() {
			s.printf("Videos have been added back to playlist: %s", res.Playlist.Name)
		}
	case undo.FlagVideo:
		s.printf("Successfully removed flag from video: %s", res.Video.Title)
	case undo.AllowVideo:
		s.printf("Successfully flagged video: %s (reason: %s)", res.Video.Title, res.Reason)
	}
	return true
}

func (s *Shell) help(_ []string) bool {
	s.printf("Available commands:")
	for _, c := range s.commands {
		s.printf("    %s - %s", c.usage, c.help)
	}
	return true
}

func (s *Shell) exit(_ []string) bool {
	s.printf("YouTube has now terminated its execution. Thank you and goodbye!")
	return false
}
