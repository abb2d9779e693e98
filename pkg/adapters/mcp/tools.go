package mcp

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/aretw0/excelauto"
	"github.com/aretw0/excelauto/pkg/apply"
	"github.com/aretw0/excelauto/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// OpenResult is returned by open_excel_and_list_sheets.
type OpenResult struct {
	FilePath string   `json:"file_path" jsonschema_description:"The workbook now selected for this session"`
	Sheets   []string `json:"sheets" jsonschema_description:"Worksheet names in workbook order"`
}

// MessageResult is returned by tools that only confirm success.
type MessageResult struct {
	Message string `json:"message"`
}

// SetCellsResult is returned by set_cells_by_array.
type SetCellsResult struct {
	apply.Report
	Message string `json:"message"`
}

type fileArgs struct {
	FilePath string `mapstructure:"file_path"`
}

type rangeArgs struct {
	SheetName     string `mapstructure:"sheet_name"`
	FirstRow      int64  `mapstructure:"first_row"`
	FirstColumn   int64  `mapstructure:"first_column"`
	LastRow       int64  `mapstructure:"last_row"`
	LastColumn    int64  `mapstructure:"last_column"`
	CellWithCoord bool   `mapstructure:"cell_with_coord"`
}

type setRangeArgs struct {
	SheetName   string  `mapstructure:"sheet_name"`
	FirstRow    int64   `mapstructure:"first_row"`
	FirstColumn int64   `mapstructure:"first_column"`
	Values      [][]any `mapstructure:"-"`
}

type setCellsArgs struct {
	SheetName string `mapstructure:"sheet_name"`
	Cells     []any  `mapstructure:"-"`
}

func (s *Server) addTool(tool mcp.Tool, h server.ToolHandlerFunc) {
	s.handlers[tool.Name] = h
	s.mcpServer.AddTool(tool, h)
}

func (s *Server) registerTools() {
	t := s.msgs.T

	s.addTool(mcp.NewTool(ToolOpenWorkbook,
		mcp.WithDescription(t("tool.open_excel.description")),
		mcp.WithString("file_path", mcp.Required(), mcp.Description(t("tool.open_excel.param.file_path"))),
		mcp.WithOutputSchema[OpenResult](),
	), mcp.NewStructuredToolHandler(s.handleOpen))

	s.addTool(mcp.NewTool(ToolGetRange,
		mcp.WithDescription(t("tool.get_range.description")),
		mcp.WithString("sheet_name", mcp.Required(), mcp.Description(t("tool.get_range.param.sheet_name"))),
		mcp.WithNumber("first_row", mcp.Required(), mcp.Min(1), mcp.Description(t("tool.get_range.param.first_row"))),
		mcp.WithNumber("first_column", mcp.Required(), mcp.Min(1), mcp.Description(t("tool.get_range.param.first_column"))),
		mcp.WithNumber("last_row", mcp.Required(), mcp.Min(1), mcp.Description(t("tool.get_range.param.last_row"))),
		mcp.WithNumber("last_column", mcp.Required(), mcp.Min(1), mcp.Description(t("tool.get_range.param.last_column"))),
		mcp.WithBoolean("cell_with_coord", mcp.Description(t("tool.get_range.param.cell_with_coord"))),
		mcp.WithOutputSchema[excelauto.RangeResult](),
	), mcp.NewStructuredToolHandler(s.handleGetRange))

	s.addTool(mcp.NewTool(ToolSetRange,
		mcp.WithDescription(t("tool.set_range.description")),
		mcp.WithString("sheet_name", mcp.Required(), mcp.Description(t("tool.set_range.param.sheet_name"))),
		mcp.WithNumber("first_row", mcp.Required(), mcp.Min(1), mcp.Description(t("tool.set_range.param.first_row"))),
		mcp.WithNumber("first_column", mcp.Required(), mcp.Min(1), mcp.Description(t("tool.set_range.param.first_column"))),
		mcp.WithArray("values", mcp.Required(),
			mcp.Description(t("tool.set_range.param.values")),
			mcp.Items(map[string]any{"type": "array"}),
		),
		mcp.WithOutputSchema[MessageResult](),
	), mcp.NewStructuredToolHandler(s.handleSetRange))

	s.addTool(mcp.NewTool(ToolCreateWorkbook,
		mcp.WithDescription(t("tool.create_xlsx.description")),
		mcp.WithString("file_path", mcp.Required(), mcp.Description(t("tool.create_xlsx.param.file_path"))),
		mcp.WithOutputSchema[MessageResult](),
	), mcp.NewStructuredToolHandler(s.handleCreate))

	s.addTool(mcp.NewTool(ToolSetCells,
		mcp.WithDescription(t("tool.set_cells.description")),
		mcp.WithString("sheet_name", mcp.Required(), mcp.Description(t("tool.set_cells.param.sheet_name"))),
		mcp.WithArray("cells", mcp.Required(),
			mcp.Description(t("tool.set_cells.param.cells")),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithOutputSchema[SetCellsResult](),
	), mcp.NewStructuredToolHandler(s.handleSetCells))
}

func (s *Server) handleOpen(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (OpenResult, error) {
	var in fileArgs
	if err := s.decode(args, &in, "file_path"); err != nil {
		return OpenResult{}, err
	}

	var out OpenResult
	err := s.track(ctx, ToolOpenWorkbook, func(ctx context.Context, sid string) error {
		sheets, err := s.svc.OpenWorkbook(ctx, sid, in.FilePath)
		out = OpenResult{FilePath: in.FilePath, Sheets: sheets}
		return err
	})
	return out, err
}

func (s *Server) handleCreate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MessageResult, error) {
	var in fileArgs
	if err := s.decode(args, &in, "file_path"); err != nil {
		return MessageResult{}, err
	}

	err := s.track(ctx, ToolCreateWorkbook, func(ctx context.Context, sid string) error {
		return s.svc.CreateWorkbook(ctx, sid, in.FilePath)
	})
	if err != nil {
		return MessageResult{}, err
	}
	return MessageResult{Message: s.msgs.T("result.created_excel", in.FilePath)}, nil
}

func (s *Server) handleGetRange(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (excelauto.RangeResult, error) {
	var in rangeArgs
	if err := s.decode(args, &in, "sheet_name", "first_row", "first_column", "last_row", "last_column"); err != nil {
		return excelauto.RangeResult{}, err
	}

	var r domain.Range
	var err error
	for _, f := range []struct {
		dst *uint32
		v   int64
	}{
		{&r.FirstRow, in.FirstRow},
		{&r.FirstCol, in.FirstColumn},
		{&r.LastRow, in.LastRow},
		{&r.LastCol, in.LastColumn},
	} {
		if *f.dst, err = index(f.v); err != nil {
			return excelauto.RangeResult{}, s.userError(err)
		}
	}

	var out excelauto.RangeResult
	err = s.track(ctx, ToolGetRange, func(ctx context.Context, sid string) error {
		res, err := s.svc.GetRange(ctx, sid, excelauto.RangeQuery{Sheet: in.SheetName, Range: r, WithCoord: in.CellWithCoord})
		out = res
		return err
	})
	return out, err
}

func (s *Server) handleSetRange(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (MessageResult, error) {
	var in setRangeArgs
	if err := s.decode(args, &in, "sheet_name", "first_row", "first_column", "values"); err != nil {
		return MessageResult{}, err
	}
	values, err := matrix(args["values"])
	if err != nil {
		return MessageResult{}, errors.New(s.msgs.T("error.values_not_2d_array"))
	}
	in.Values = values

	row, err := index(in.FirstRow)
	if err != nil {
		return MessageResult{}, s.userError(err)
	}
	col, err := index(in.FirstColumn)
	if err != nil {
		return MessageResult{}, s.userError(err)
	}

	err = s.track(ctx, ToolSetRange, func(ctx context.Context, sid string) error {
		return s.svc.SetRange(ctx, sid, in.SheetName, row, col, in.Values)
	})
	if err != nil {
		return MessageResult{}, err
	}
	return MessageResult{Message: s.msgs.T("result.set_range")}, nil
}

func (s *Server) handleSetCells(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SetCellsResult, error) {
	var in setCellsArgs
	if err := s.decode(args, &in, "sheet_name", "cells"); err != nil {
		return SetCellsResult{}, err
	}
	cells, ok := args["cells"].([]any)
	if !ok {
		return SetCellsResult{}, errors.New(s.msgs.T("error.cells_not_array"))
	}
	in.Cells = cells
	instructions, positions, dropped := splitInstructions(in.Cells)

	var out SetCellsResult
	err := s.track(ctx, ToolSetCells, func(ctx context.Context, sid string) error {
		rep, err := s.svc.SetCells(ctx, sid, in.SheetName, instructions)
		rep = mergeSkips(rep, positions, dropped)
		out = SetCellsResult{
			Report:  rep,
			Message: s.msgs.T("result.set_cells_by_array", rep.Applied, len(rep.Skipped)),
		}
		return err
	})
	if err != nil {
		return SetCellsResult{}, err
	}
	return out, nil
}

// splitInstructions keeps the string entries of cells. positions maps each
// kept instruction back to its index in cells; dropped lists the entries
// that are not strings.
func splitInstructions(cells []any) (instructions []string, positions []int, dropped []apply.Skip) {
	for i, c := range cells {
		str, ok := c.(string)
		if !ok {
			dropped = append(dropped, apply.Skip{Index: i, Instruction: fmt.Sprint(c), Reason: apply.ReasonNotAString})
			continue
		}
		instructions = append(instructions, str)
		positions = append(positions, i)
	}
	return instructions, positions, dropped
}

// mergeSkips renumbers the report's skips to positions in the original
// cells array and interleaves the dropped entries, ordered by index.
func mergeSkips(rep apply.Report, positions []int, dropped []apply.Skip) apply.Report {
	if len(dropped) == 0 {
		return rep
	}
	skipped := make([]apply.Skip, 0, len(rep.Skipped)+len(dropped))
	for _, sk := range rep.Skipped {
		sk.Index = positions[sk.Index]
		skipped = append(skipped, sk)
	}
	skipped = append(skipped, dropped...)
	slices.SortFunc(skipped, func(a, b apply.Skip) int { return cmp.Compare(a.Index, b.Index) })
	rep.Skipped = skipped
	return rep
}

// track runs fn for the calling session and reports the call to the
// service hooks. Errors come back translated for the client.
func (s *Server) track(ctx context.Context, tool string, fn func(ctx context.Context, sessionID string) error) error {
	sid := sessionID(ctx)
	err := s.svc.Track(ctx, tool, sid, func(ctx context.Context) error {
		return fn(ctx, sid)
	})
	if err != nil {
		s.logger.Error(s.msgs.T("log.error.tool_failed"), "tool", tool, "session_id", sid, "err", err)
		return s.userError(err)
	}
	return nil
}

// decode checks required keys and maps args onto out.
func (s *Server) decode(args map[string]interface{}, out any, required ...string) error {
	for _, key := range required {
		if _, ok := args[key]; !ok {
			return errors.New(s.msgs.T("error.missing_param", key))
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// matrix checks that v is an array of arrays.
func matrix(v any) ([][]any, error) {
	rows, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("values is %T, not an array", v)
	}
	out := make([][]any, len(rows))
	for i, r := range rows {
		line, ok := r.([]any)
		if !ok {
			return nil, fmt.Errorf("values[%d] is %T, not an array", i, r)
		}
		out[i] = line
	}
	return out, nil
}

// userError replaces the no-workbook sentinel with a hint naming the tools
// that select one. Other errors already carry their detail.
func (s *Server) userError(err error) error {
	if errors.Is(err, domain.ErrNoWorkbook) {
		return errors.New(s.msgs.T("error.no_workbook"))
	}
	return err
}

// index converts a decoded row or column number.
func index(v int64) (uint32, error) {
	if v < 1 || v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: index %d out of range", domain.ErrInvalidRange, v)
	}
	return uint32(v), nil
}
