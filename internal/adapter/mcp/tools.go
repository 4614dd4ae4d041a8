package mcp

import "github.com/mark3labs/mcp-go/mcp"

var createToolDef = mcp.NewTool("card_create",
	mcp.WithDescription("Generate an illustrated Anki flashcard for a Japanese word or phrase and add it to the local Anki collection. Returns the created note id, or marks the result as a duplicate when the note already exists."),
	mcp.WithString("word",
		mcp.Required(),
		mcp.Description("The Japanese word or phrase to make a flashcard for, e.g. 昨日"),
	),
	mcp.WithString("deck",
		mcp.Description("Target deck name. Defaults to the configured deck."),
	),
	mcp.WithBoolean("no_anki",
		mcp.Description("Generate and save artifacts locally without touching Anki."),
	),
)

var historyToolDef = mcp.NewTool("card_history",
	mcp.WithDescription("List recent flashcard runs, newest first, with their outcome (note id, duplicate, or the stage that failed)."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of runs to return. Defaults to 20."),
	),
)
