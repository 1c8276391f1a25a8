package mcp

import "github.com/mark3labs/mcp-go/mcp"

var explainTool = mcp.NewTool("explain",
	mcp.WithDescription("Explain a study question at the chosen depth. Returns the answer as Markdown."),
	mcp.WithString("question",
		mcp.Description("The question to explain. May be empty when image_path is given."),
	),
	mcp.WithString("subject",
		mcp.Description("Subject area (default general)"),
		mcp.Enum("general", "physics", "chemistry", "biology", "maths"),
	),
	mcp.WithString("level",
		mcp.Description("Explanation depth (default GENERAL)"),
		mcp.Enum("GENERAL", "CLASS_6", "CLASS_10", "NEET_JEE"),
	),
	mcp.WithString("image_path",
		mcp.Description("Path to an image of the problem, such as a photographed worksheet"),
	),
)

var renderMarkdownTool = mcp.NewTool("render_markdown",
	mcp.WithDescription("Render Markdown to the HTML shown in the Learnova UI."),
	mcp.WithString("markdown",
		mcp.Required(),
		mcp.Description("Markdown source"),
	),
	mcp.WithString("engine",
		mcp.Description("Rendering engine (default from configuration)"),
		mcp.Enum("legacy", "commonmark"),
	),
)

var listCatalogTool = mcp.NewTool("list_catalog",
	mcp.WithDescription("List the available subjects and explanation levels."),
)

var exportPDFTool = mcp.NewTool("export_pdf",
	mcp.WithDescription("Write an answer to a printable PDF file."),
	mcp.WithString("markdown",
		mcp.Required(),
		mcp.Description("The answer in Markdown"),
	),
	mcp.WithString("question",
		mcp.Description("The question, printed above the answer"),
	),
	mcp.WithString("output_path",
		mcp.Required(),
		mcp.Description("Where to write the PDF"),
	),
)
