package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MaksymStoianov/Sheet/a1"
	"github.com/MaksymStoianov/Sheet/sheet"
	"github.com/MaksymStoianov/Sheet/xlsxhost"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server
type Server struct {
	mcpServer *server.MCPServer
}

// New creates a new MCP server with all tools registered
func New() *Server {
	s := server.NewMCPServer(
		"sheetq",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	srv := &Server{mcpServer: s}
	srv.registerTools()

	return srv
}

// Run starts the MCP server on stdio
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	// parse_range tool - Parse an A1 range reference
	s.mcpServer.AddTool(mcp.NewTool("parse_range",
		mcp.WithDescription("Parse an A1-style range reference (e.g., B5:D10, C:C, 5:5) into its normalized descriptor"),
		mcp.WithString("reference", mcp.Required(), mcp.Description("A1 range reference to parse")),
		mcp.WithBoolean("strip_nulls", mcp.Description("Drop unresolved end coordinates from the output (default: false)")),
	), s.handleParseRange)

	// column tool - Convert between column labels and positions
	s.mcpServer.AddTool(mcp.NewTool("column",
		mcp.WithDescription("Convert a column label to its 1-based position (A=1, AA=27) or back"),
		mcp.WithString("value", mcp.Required(), mcp.Description("Column label (e.g. AB) or 1-based position (e.g. 28)")),
	), s.handleColumn)

	// read tool - Read cells addressed by a range
	s.mcpServer.AddTool(mcp.NewTool("read",
		mcp.WithDescription("Read cells addressed by an A1 range reference. If no range specified, reads first 1000 rows"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Path to xlsx file")),
		mcp.WithString("sheet", mcp.Description("Sheet name (default: first sheet)")),
		mcp.WithString("range", mcp.Description("A1 range reference (e.g., B2:D10, C:C, 5:5)")),
		mcp.WithBoolean("display", mcp.Description("Return rendered cell text instead of raw values (default: false)")),
	), s.handleRead)

	// records tool - Read rows as keyed records
	s.mcpServer.AddTool(mcp.NewTool("records",
		mcp.WithDescription("Read rows as objects keyed by a schema inferred from the header row or given explicitly"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Path to xlsx file")),
		mcp.WithString("sheet", mcp.Description("Sheet name (default: first sheet)")),
		mcp.WithString("range", mcp.Description("A1 range reference to read (default: entire sheet)")),
		mcp.WithBoolean("header", mcp.Description("Infer field names from the first row (default: false)")),
		mcp.WithString("schema", mcp.Description("Comma-separated field names (overrides header)")),
	), s.handleRecords)

	// write_range tool - Write values into a range
	s.mcpServer.AddTool(mcp.NewTool("write_range",
		mcp.WithDescription("Write a 2D array of values into the cells addressed by an A1 range reference (max 10000 cells)"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Path to xlsx file")),
		mcp.WithString("sheet", mcp.Description("Sheet name (default: first sheet)")),
		mcp.WithString("range", mcp.Required(), mcp.Description("A1 range reference to write into")),
		// data will be passed as JSON array via BindArguments
	), s.handleWriteRange)

	// append_rows tool - Append rows after the last occupied row
	s.mcpServer.AddTool(mcp.NewTool("append_rows",
		mcp.WithDescription("Append rows after the last occupied row of a sheet (max 1000 rows per call)"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Path to xlsx file")),
		mcp.WithString("sheet", mcp.Description("Sheet name (default: first sheet)")),
		// rows will be passed as JSON array via BindArguments
	), s.handleAppendRows)

	// insert_rows tool - Insert rows at a specific position
	s.mcpServer.AddTool(mcp.NewTool("insert_rows",
		mcp.WithDescription("Insert rows at a 1-based position, shifting existing rows down (max 1000 rows)"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Path to xlsx file")),
		mcp.WithString("sheet", mcp.Description("Sheet name (default: first sheet)")),
		mcp.WithNumber("row", mcp.Required(), mcp.Description("Row number to insert at (1-based)")),
		// data will be passed as JSON array via BindArguments
	), s.handleInsertRows)

	// delete_rows tool - Delete rows matching a condition
	s.mcpServer.AddTool(mcp.NewTool("delete_rows",
		mcp.WithDescription("Delete every row whose cell in a column matches a condition, bottom-up under the sheet lock"),
		mcp.WithString("file", mcp.Required(), mcp.Description("Path to xlsx file")),
		mcp.WithString("sheet", mcp.Description("Sheet name (default: first sheet)")),
		mcp.WithString("column", mcp.Description("Column label to test (default: A)")),
		mcp.WithString("equals", mcp.Description("Delete rows whose cell equals this text")),
		mcp.WithBoolean("blank", mcp.Description("Delete rows whose cell is blank (default: false)")),
	), s.handleDeleteRows)
}

// Tool handlers

func (s *Server) handleParseRange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reference := request.GetString("reference", "")
	stripNulls := request.GetBool("strip_nulls", false)

	var transforms []a1.Transform
	if stripNulls {
		transforms = append(transforms, a1.StripUnbounded)
	}

	r, err := a1.Parse(reference, transforms...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(r)
}

func (s *Server) handleColumn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	value := request.GetString("value", "")

	var label string
	var position int

	if n, err := strconv.Atoi(value); err == nil {
		label, err = a1.PositionToLabel(n)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		position = n
	} else {
		position, err = a1.LabelToPosition(value)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		label, _ = a1.PositionToLabel(position)
	}

	return jsonResult(map[string]any{
		"label":    label,
		"position": position,
	})
}

func (s *Server) handleRead(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := request.GetString("file", "")
	sheetName := request.GetString("sheet", "")
	rangeStr := request.GetString("range", "")
	display := request.GetBool("display", false)

	// Validate path
	validPath, err := ValidateFilePath(file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	host, sh, err := openSheet(validPath, sheetName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer host.Close()

	var rows [][]any
	if display {
		rows, err = sh.DisplayValues(ctx, rangeStr)
	} else {
		rows, err = sh.Values(ctx, rangeStr)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Apply the default limit only on whole-sheet reads
	truncated := false
	limit := 0
	if rangeStr == "" {
		limit = DefaultRowLimit
		if len(rows) > limit {
			rows = rows[:limit]
			truncated = true
		}
	}

	return jsonResultWithMetadata(rows, len(rows), truncated, limit)
}

func (s *Server) handleRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := request.GetString("file", "")
	sheetName := request.GetString("sheet", "")
	rangeStr := request.GetString("range", "")
	header := request.GetBool("header", false)
	fields := request.GetString("schema", "")

	// Validate path
	validPath, err := ValidateFilePath(file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var opts []sheet.Option
	if fields != "" {
		opts = append(opts, sheet.WithSchema(sheet.NewSchema(strings.Split(fields, ",")...)))
	} else if header {
		opts = append(opts, sheet.WithHeaderSchema())
	}

	host, sh, err := openSheet(validPath, sheetName, opts...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer host.Close()

	records, err := sh.Records(ctx, rangeStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(records)
}

func (s *Server) handleWriteRange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := request.GetString("file", "")
	sheetName := request.GetString("sheet", "")
	rangeStr := request.GetString("range", "")

	// Parse data from request arguments
	var args struct {
		Data [][]any `json:"data"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse data: %v", err)), nil
	}
	if len(args.Data) == 0 {
		return mcp.NewToolResultError("no data provided"), nil
	}

	// Validate path
	validPath, err := ValidateFilePath(file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := CheckFileSize(validPath, xlsxhost.MaxFileSize); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	host, sh, err := openSheet(validPath, sheetName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer host.Close()

	if err := sh.SetValues(ctx, rangeStr, args.Data); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := host.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"file":         file,
		"sheet":        host.Sheet(),
		"range":        rangeStr,
		"rows_written": len(args.Data),
	})
}

func (s *Server) handleAppendRows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := request.GetString("file", "")
	sheetName := request.GetString("sheet", "")

	// Parse rows from request arguments using BindArguments
	var args struct {
		Rows [][]any `json:"rows"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse rows: %v", err)), nil
	}
	if len(args.Rows) == 0 {
		return mcp.NewToolResultError("no rows provided"), nil
	}

	// Validate path
	validPath, err := ValidateFilePath(file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := CheckFileSize(validPath, xlsxhost.MaxFileSize); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	host, sh, err := openSheet(validPath, sheetName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer host.Close()

	if err := sh.AppendRows(ctx, args.Rows); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := host.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"file":     file,
		"sheet":    host.Sheet(),
		"appended": len(args.Rows),
	})
}

func (s *Server) handleInsertRows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := request.GetString("file", "")
	sheetName := request.GetString("sheet", "")
	row := request.GetInt("row", 0)

	// Parse data from request arguments
	var args struct {
		Data [][]any `json:"data"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse data: %v", err)), nil
	}
	if len(args.Data) == 0 {
		return mcp.NewToolResultError("no data provided"), nil
	}
	if row < 1 {
		return mcp.NewToolResultError(fmt.Sprintf("invalid row number: %d (must be >= 1)", row)), nil
	}

	// Validate path
	validPath, err := ValidateFilePath(file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := CheckFileSize(validPath, xlsxhost.MaxFileSize); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	host, sh, err := openSheet(validPath, sheetName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer host.Close()

	if err := sh.InsertRowsAt(ctx, row, args.Data); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := host.Save(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"file":     file,
		"sheet":    host.Sheet(),
		"position": row,
		"inserted": len(args.Data),
	})
}

func (s *Server) handleDeleteRows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := request.GetString("file", "")
	sheetName := request.GetString("sheet", "")
	column := request.GetString("column", "A")
	equals := request.GetString("equals", "")
	blank := request.GetBool("blank", false)

	if equals == "" && !blank {
		return mcp.NewToolResultError("one of equals or blank is required"), nil
	}

	position, err := a1.LabelToPosition(column)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	index := position - 1

	// Validate path
	validPath, err := ValidateFilePath(file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := CheckFileSize(validPath, xlsxhost.MaxFileSize); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	host, sh, err := openSheet(validPath, sheetName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer host.Close()

	match := func(row int, values []any) bool {
		var cell string
		if index < len(values) && values[index] != nil {
			cell = strings.TrimSpace(fmt.Sprint(values[index]))
		}
		if blank {
			return cell == ""
		}
		return cell == equals
	}

	deleted, err := sh.DeleteRowsWhere(ctx, match)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if deleted > 0 {
		if err := host.Save(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	return jsonResult(map[string]any{
		"file":    file,
		"sheet":   host.Sheet(),
		"column":  strings.ToUpper(column),
		"deleted": deleted,
	})
}

// Helper functions

func openSheet(path, sheetName string, opts ...sheet.Option) (*xlsxhost.Host, *sheet.Sheet, error) {
	host, err := xlsxhost.Open(path, sheetName)
	if err != nil {
		return nil, nil, err
	}
	sh, err := sheet.New(host, opts...)
	if err != nil {
		host.Close()
		return nil, nil, err
	}
	return host, sh, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("JSON encoding error: %v", err)), nil
	}

	// Check output size limit
	if len(data) > MaxOutputBytes {
		return mcp.NewToolResultError(fmt.Sprintf("Output too large (%d bytes, max %d bytes). Try reducing the range or limit.", len(data), MaxOutputBytes)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

func jsonResultWithMetadata(data any, rowsReturned int, truncated bool, limit int) (*mcp.CallToolResult, error) {
	result := map[string]any{
		"data": data,
		"metadata": map[string]any{
			"rows_returned": rowsReturned,
			"truncated":     truncated,
			"limit":         limit,
		},
	}
	return jsonResult(result)
}
