package tools

import (
	"context"
	"fmt"
	"strings"

	"embymcp/pkg/media"
)

// errNoLibrarySelected is the guidance document returned by tools that need
// a library selection before they can run.
const errNoLibrarySelected = "ERROR: no library is currently selected. Select library using tool select_library"

func (s *Server) tUserList(ctx context.Context) (any, error) {
	users, err := s.Catalog.Users(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user list: %w", err)
	}
	return users, nil
}

// refreshLibraries fetches and caches the library list. The cache backs
// select_library and the playlist tools, which resolve names against it.
func (s *Server) refreshLibraries(ctx context.Context) ([]media.Library, error) {
	libs, err := s.Catalog.Libraries(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.libraries = nil
		return nil, err
	}
	s.libraries = libs
	return libs, nil
}

func (s *Server) tLibraryList(ctx context.Context) (any, error) {
	libs, err := s.refreshLibraries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve library list: %w", err)
	}
	return libs, nil
}

func (s *Server) tSelectLibrary(ctx context.Context, args map[string]any) (any, error) {
	name := str(args["library_name"])
	if name == "" {
		return "ERROR: no library name was supplied. Obtain library names from tool retrieve_library_list", nil
	}

	s.mu.Lock()
	libs := s.libraries
	s.mu.Unlock()
	if len(libs) == 0 {
		var err error
		libs, err = s.refreshLibraries(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve library list: %w", err)
		}
	}
	if len(libs) == 0 {
		return "ERROR: No available libraries found. Use tool retrieve_library_list to obtain a list of libraries.", nil
	}

	for i := range libs {
		if strings.EqualFold(libs[i].Name, name) {
			s.mu.Lock()
			s.current = &libs[i]
			s.mu.Unlock()
			return "Success", nil
		}
	}
	return fmt.Sprintf("ERROR: Library not found: %s", name), nil
}

// currentLibrary returns the selection, or nil when none is made.
func (s *Server) currentLibrary() *media.Library {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Server) tCurrentLibrary(_ context.Context) (any, error) {
	lib := s.currentLibrary()
	if lib == nil {
		return errNoLibrarySelected, nil
	}
	return lib, nil
}

func (s *Server) tGenreList(ctx context.Context) (any, error) {
	lib := s.currentLibrary()
	if lib == nil {
		return errNoLibrarySelected, nil
	}
	genres, err := s.Catalog.Genres(ctx, lib.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve genre list: %w", err)
	}
	return genres, nil
}
