// Command studio drives the generation wizard from a terminal against
// a running API. Authenticate in a browser first and fetch a token
// from /auth/token, then:
//
//	API_URL=http://localhost:8080 API_TOKEN=... go run ./cmd/studio
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/GhazanSubz/fypstudio-api/wizard"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}

	client := wizard.NewClient(apiURL)
	client.Token = os.Getenv("API_TOKEN")

	ctrl := wizard.NewController(client)
	steps := ctrl.Steps()
	reader := bufio.NewReader(os.Stdin)
	ctx := context.Background()

	fmt.Println("FYP Studio: generate an AI video")
	fmt.Println("Press enter to keep the current value, 'b' to go back.")

	for {
		step := steps[ctrl.CurrentStep()-1]
		fmt.Printf("\n[%d/%d] %s\n", step.ID, len(steps), step.Title)

		if step.Key == "" {
			fmt.Printf("Describe your video (%s):\n> ", ctrl.PromptCounter())
		} else {
			for _, opt := range step.Options {
				line := fmt.Sprintf("  %s) %s", opt.Value, opt.Label)
				if opt.Description != "" {
					line += " - " + opt.Description
				}
				fmt.Println(line)
			}
			fmt.Print("> ")
		}

		input, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("Failed to read input: %v", err)
		}
		input = strings.TrimSpace(input)

		if input == "b" {
			ctrl.Retreat()
			continue
		}
		if input != "" {
			if step.Key == "" {
				ctrl.SetPrompt(input)
			} else if err := ctrl.SetSetting(step.Key, input); err != nil {
				fmt.Printf("Invalid value: %v\n", err)
				continue
			}
		}

		onLastStep := ctrl.CurrentStep() == len(steps)
		if onLastStep {
			fmt.Println("\nGenerating... this can take several minutes.")
		}

		if err := ctrl.Advance(ctx); err != nil {
			fmt.Printf("Generation failed: %s\n", ctrl.Err())
			ctrl.DismissError()
			continue
		}

		if ctrl.ShowingResult() {
			fmt.Printf("\nDone! Your video: %s\n", ctrl.Result().URL)
			ctrl.CloseResult()

			fmt.Print("Generate another with the same settings? [y/N] ")
			again, _ := reader.ReadString('\n')
			if strings.TrimSpace(strings.ToLower(again)) != "y" {
				return
			}
		}
	}
}
