package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/concentration/internal/config"
	"github.com/arcanaland/concentration/internal/deck"
)

// deckCmd represents the deck command group
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage card sets in your deck library",
	Long: `Commands for managing card sets in your deck library.

A deck is either a directory holding cards.json or cards.toml, or a single
.json or .toml file. Image paths inside a deck are relative to it.`,
}

// deckListCmd represents the deck list command
var deckListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List available decks in your deck library",
	Run: func(cmd *cobra.Command, args []string) {
		defaultDeck, err := config.GetDefaultDeck()
		if err != nil {
			fmt.Printf("Error getting default deck: %v\n", err)
			return
		}

		builtin, err := deck.LoadSet(context.Background(), "")
		if err != nil {
			fmt.Printf("Error loading builtin deck: %v\n", err)
			return
		}
		printDeck(deck.BuiltinName, builtin, defaultDeck == "")

		libraryPath, err := filepath.EvalSymlinks(config.GetDeckLibraryPath())
		if os.IsNotExist(err) {
			fmt.Printf("\nDeck library at %s does not exist.\n", config.GetDeckLibraryPath())
			fmt.Println("Run 'concentration deck init' to create it.")
			return
		}
		if err != nil {
			fmt.Printf("Error resolving symbolic link: %v\n", err)
			return
		}

		entries, err := os.ReadDir(libraryPath)
		if err != nil {
			fmt.Printf("Error reading deck library: %v\n", err)
			return
		}

		found := 0
		for _, entry := range entries {
			name := entry.Name()
			entryPath := filepath.Join(libraryPath, name)

			// Follow symbolic links to directories and files alike
			fileInfo, err := os.Stat(entryPath)
			if err != nil {
				fmt.Printf("Error resolving entry %s: %v\n", name, err)
				continue
			}
			if !fileInfo.IsDir() && !isSetFile(name) {
				continue
			}

			set, err := deck.LoadSet(context.Background(), entryPath)
			if err != nil {
				// Not a valid deck, skip
				continue
			}

			printDeck(name, set, name == defaultDeck)
			found++
		}

		if found == 0 {
			fmt.Println("\nNo decks found in your deck library.")
			fmt.Println("You can add decks by copying them to:", libraryPath)
		}
	},
}

func printDeck(name string, set *deck.Set, isDefault bool) {
	if isDefault {
		fmt.Printf("* %s (%d cards) %s\n", name, len(set.Cards), color.GreenString("[DEFAULT]"))
		return
	}
	fmt.Printf("  %s (%d cards)\n", name, len(set.Cards))
}

func isSetFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".toml":
		return true
	}
	return false
}

// deckSetDefaultCmd represents the deck set-default command
var deckSetDefaultCmd = &cobra.Command{
	Use:   "set-default [deck_name]",
	Short: "Set the default deck",
	Long: `Set the deck used by play and show when --deck is not given.
Use "builtin" to go back to the builtin card set.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deckName := args[0]
		if deckName == deck.BuiltinName {
			deckName = ""
		}

		// Check if the deck exists
		deckPath, err := config.GetDeckPath(deckName)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		// Try to load the deck to make sure it's valid
		if _, err := deck.LoadSet(context.Background(), deckPath); err != nil {
			fmt.Printf("Error: Not a valid deck - %v\n", err)
			return
		}

		// Set as default
		if err := config.SetDefaultDeck(deckName); err != nil {
			fmt.Printf("Error setting default deck: %v\n", err)
			return
		}

		fmt.Printf("Default deck set to: %s\n", args[0])
	},
}

// deckInitCmd represents the deck init command
var deckInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the deck library",
	Run: func(cmd *cobra.Command, args []string) {
		libraryPath := config.GetDeckLibraryPath()

		// Create the deck library directory if it doesn't exist
		if err := os.MkdirAll(libraryPath, 0755); err != nil {
			fmt.Printf("Error creating deck library: %v\n", err)
			return
		}

		fmt.Println("Deck library initialized at:", libraryPath)
		fmt.Println("You can now add decks by copying them to this directory.")

		// Initialize config
		if _, err := config.LoadConfig(); err != nil {
			fmt.Printf("Error initializing config: %v\n", err)
			return
		}

		fmt.Println("Config file initialized at:", config.GetConfigFilePath())
	},
}

func init() {
	RootCmd.AddCommand(deckCmd)
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckSetDefaultCmd)
	deckCmd.AddCommand(deckInitCmd)
}
