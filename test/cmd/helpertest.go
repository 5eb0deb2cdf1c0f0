package cmd

import (
	"context"
	"log/slog"

	"github.com/leadops/leadctl/internal/build"
	"github.com/leadops/leadctl/internal/cmd/common"
	"github.com/leadops/leadctl/internal/collection"
	"github.com/leadops/leadctl/internal/config"
	"github.com/leadops/leadctl/internal/iostreams"
	"github.com/leadops/leadctl/internal/profile"
	"github.com/leadops/leadctl/internal/screens"
	"github.com/spf13/cobra"
)

type MockHelper struct {
	GetCmdMock            func() *cobra.Command
	GetArgsMock           func() []string
	GetStreamsMock        func() *iostreams.IOStreams
	GetConfigMock         func() (config.Hook, error)
	GetOutputFormatMock   func() (common.OutputFormat, error)
	IsInteractiveMock     func() (bool, error)
	GetLoggerMock         func() (*slog.Logger, error)
	GetBuildInfoMock      func() (*build.Info, error)
	GetProfileManagerMock func() (profile.Manager, error)
	GetContextMock        func() context.Context
	GetScreensMock        func(cfg config.Hook) (*screens.Registry, error)
	GetFetcherMock        func(cfg config.Hook, logger *slog.Logger, resource string) (collection.Fetcher, error)
}

func (m *MockHelper) GetCmd() *cobra.Command {
	if m.GetCmdMock == nil {
		return nil
	}
	return m.GetCmdMock()
}

func (m *MockHelper) GetArgs() []string {
	if m.GetArgsMock == nil {
		return nil
	}
	return m.GetArgsMock()
}

func (m *MockHelper) GetStreams() *iostreams.IOStreams {
	return m.GetStreamsMock()
}

func (m *MockHelper) GetConfig() (config.Hook, error) {
	return m.GetConfigMock()
}

func (m *MockHelper) GetOutputFormat() (common.OutputFormat, error) {
	return m.GetOutputFormatMock()
}

func (m *MockHelper) IsInteractive() (bool, error) {
	if m.IsInteractiveMock == nil {
		return false, nil
	}
	return m.IsInteractiveMock()
}

func (m *MockHelper) GetLogger() (*slog.Logger, error) {
	return m.GetLoggerMock()
}

func (m *MockHelper) GetBuildInfo() (*build.Info, error) {
	return m.GetBuildInfoMock()
}

func (m *MockHelper) GetProfileManager() (profile.Manager, error) {
	return m.GetProfileManagerMock()
}

func (m *MockHelper) GetContext() context.Context {
	if m.GetContextMock == nil {
		return context.Background()
	}
	return m.GetContextMock()
}

func (m *MockHelper) GetScreens(cfg config.Hook) (*screens.Registry, error) {
	return m.GetScreensMock(cfg)
}

func (m *MockHelper) GetFetcher(cfg config.Hook, logger *slog.Logger, resource string) (collection.Fetcher, error) {
	return m.GetFetcherMock(cfg, logger, resource)
}
