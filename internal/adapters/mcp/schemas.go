package mcpadapter

import "github.com/mark3labs/mcp-go/mcp"

func askResumeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "ask_resume",
		Description: "Answer a question about the loaded résumé with citations to résumé sections",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"question": map[string]any{
					"type":        "string",
					"description": "Natural-language question, e.g. \"What are your skills?\"",
				},
			},
			Required: []string{"question"},
		},
	}
}

func resumeStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "resume_status",
		Description: "Report whether a résumé is loaded, its content hash and chunk sections",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}
}
