// Package topics provides topic-based help for Cobra CLI applications.
// Topics are markdown or text files read from an fs.FS, usually one embedded
// in the binary, and are shown through a "topics" command and through
// "help <topic>".
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// TopicManager manages help topics for a Cobra application
type TopicManager struct {
	fsys       fs.FS
	topics     map[string]*Topic
	extensions []string
	renderer   Renderer
	groupID    string
}

// Topic represents a help topic
type Topic struct {
	Name     string
	FilePath string
	Content  string
}

// Format is the topic's file extension, used to pick how it is rendered.
func (t *Topic) Format() string {
	return path.Ext(t.FilePath)
}

// Options configures the TopicManager
type Options struct {
	// Extensions is the list of file extensions to consider as topics
	// Defaults to [".txt", ".md"] if not specified
	Extensions []string

	// Renderer for formatting topic content (optional)
	// Defaults to PlainRenderer if not specified
	Renderer Renderer

	// GroupID places the topics command in a command group
	GroupID string
}

// New creates a TopicManager over fsys and loads its topics.
func New(fsys fs.FS, opts Options) (*TopicManager, error) {
	tm := &TopicManager{
		fsys:       fsys,
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
		groupID:    opts.GroupID,
	}

	if len(tm.extensions) == 0 {
		tm.extensions = []string{".txt", ".md"}
	}
	if tm.renderer == nil {
		tm.renderer = &PlainRenderer{}
	}

	if err := tm.scanTopics(); err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}
	return tm, nil
}

// scanTopics loads every file with a supported extension.
func (tm *TopicManager) scanTopics() error {
	return fs.WalkDir(tm.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := path.Ext(p)
		supported := false
		for _, validExt := range tm.extensions {
			if ext == validExt {
				supported = true
				break
			}
		}
		if !supported {
			return nil
		}

		content, err := fs.ReadFile(tm.fsys, p)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(path.Base(p), ext)
		tm.topics[name] = &Topic{
			Name:     name,
			FilePath: p,
			Content:  string(content),
		}
		return nil
	})
}

// GetTopic retrieves a topic by name
func (tm *TopicManager) GetTopic(name string) (*Topic, bool) {
	// Handle flag-style topics (e.g., --width -> width)
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")

	if topic, exists := tm.topics[name]; exists {
		return topic, true
	}

	// For flag-style topics, also try with "option-" prefix
	topic, exists := tm.topics["option-"+name]
	return topic, exists
}

// ListTopics returns all available topic names, sorted
func (tm *TopicManager) ListTopics() []string {
	topics := make([]string, 0, len(tm.topics))
	for name := range tm.topics {
		topics = append(topics, name)
	}
	sort.Strings(topics)
	return topics
}

// Show writes a rendered topic to w.
func (tm *TopicManager) Show(w io.Writer, topic *Topic, plain bool) {
	if plain {
		fmt.Fprint(w, topic.Content)
		return
	}
	fmt.Fprint(w, tm.renderer.Render(topic.Content, topic.Format()))
}

// PrintList writes the topic index to w.
func (tm *TopicManager) PrintList(w io.Writer, appName string) {
	topics := tm.ListTopics()
	if len(topics) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var options, general []string
	for _, name := range topics {
		if strings.HasPrefix(name, "option-") {
			options = append(options, strings.TrimPrefix(name, "option-"))
		} else {
			general = append(general, name)
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(w, "  --%s\n", name)
		}
	}
	fmt.Fprintf(w, "\nUse '%s topics <topic>' to read about a specific topic.\n", appName)
}

// Command returns a "topics [NAME]" command listing or showing topics.
func (tm *TopicManager) Command(appName string) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:     "topics [NAME]",
		Short:   "Read help topics about the document format",
		Args:    cobra.MaximumNArgs(1),
		GroupID: tm.groupID,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return tm.ListTopics(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				tm.PrintList(cmd.OutOrStdout(), appName)
				return nil
			}
			topic, exists := tm.GetTopic(args[0])
			if !exists {
				return fmt.Errorf("unknown topic %q, run '%s topics' for a list", args[0], appName)
			}
			tm.Show(cmd.OutOrStdout(), topic, plain)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print the raw markdown source")
	return cmd
}

// Install adds the topics command to rootCmd and replaces its help command
// with one that also knows about topics ("app help styles").
func (tm *TopicManager) Install(rootCmd *cobra.Command) {
	rootCmd.AddCommand(tm.Command(rootCmd.Name()))

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var completions []string
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, tm.ListTopics()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) > 0 {
				if topic, exists := tm.GetTopic(args[0]); exists {
					tm.Show(cmd.OutOrStdout(), topic, false)
					return
				}
				if target, _, err := rootCmd.Find(args); err == nil && target != nil {
					_ = target.Help()
					return
				}
			}
			_ = rootCmd.Help()
		},
	}
	rootCmd.SetHelpCommand(helpCmd)
}
