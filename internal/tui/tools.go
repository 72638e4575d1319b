package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/johan-st/sqlite-viewer/internal/database"
	"github.com/johan-st/sqlite-viewer/internal/grid"
)

func newToolsMenu() *menu {
	return newMenu("Tools", []menuItem{
		{label: "Insert Record", run: func(ctx *Context) Action {
			return requireWritable(ctx, func() Action { return pickTable(ctx, "Insert into", insertForm) })
		}},
		{label: "Update Record", run: func(ctx *Context) Action {
			return requireWritable(ctx, func() Action { return pickTable(ctx, "Update in", updateForm) })
		}},
		{label: "Delete Record", run: func(ctx *Context) Action {
			return requireWritable(ctx, func() Action { return pickTable(ctx, "Delete from", deleteForm) })
		}},
		{label: "Create Table", run: func(ctx *Context) Action {
			return requireWritable(ctx, func() Action { return Push(createTableForm()) })
		}},
		{label: "Drop Table", run: func(ctx *Context) Action {
			return requireWritable(ctx, func() Action { return pickTable(ctx, "Drop", dropConfirm) })
		}},
		{label: "View Table Structure", run: func(ctx *Context) Action {
			return pickTable(ctx, "Structure of", structureView)
		}},
		{label: "Custom SQL Query", run: func(ctx *Context) Action {
			return Push(newSQLScreen(ctx))
		}},
		{label: "Back", run: func(*Context) Action { return Pop() }},
	})
}

// pickTable pushes a table list; choosing a table replaces the list with
// whatever next builds for it.
func pickTable(ctx *Context, verb string, next func(ctx *Context, table string) Action) Action {
	tables, err := ctx.Session.ListTables()
	if err != nil {
		return Push(errorMessage("Tables", err))
	}
	if len(tables) == 0 {
		return Push(newMessage("Tables", "The database has no tables.", true))
	}
	items := make([]menuItem, len(tables))
	for i, t := range tables {
		items[i] = menuItem{label: t, run: func(ctx *Context) Action { return next(ctx, t) }}
	}
	return Push(newMenu(verb+" which table?", items))
}

// done reports the outcome of a write in place of the screen that ran it.
func done(title string, res *database.QueryResult, err error) Action {
	if err != nil {
		return Replace(errorMessage(title, err))
	}
	return Replace(newMessage(title, res.Summary(), false))
}

// insertForm asks for one value per column. Blank fields are left out of
// the statement so column defaults apply.
func insertForm(ctx *Context, table string) Action {
	cols, err := ctx.Session.TableSchema(table)
	if err != nil {
		return Replace(errorMessage("Insert Record", err))
	}
	fields := make([]field, len(cols))
	for i, c := range cols {
		label := fmt.Sprintf("%s (%s)", c.Name, c.Type)
		if c.IsPrimaryKey() {
			label += " primary key"
		}
		fields[i] = field{label: label, placeholder: c.Default()}
	}

	f := newForm("Insert into "+table, fields, func(ctx *Context, values []string) (Action, error) {
		var names []string
		var args []any
		for i, c := range cols {
			if values[i] == "" {
				continue
			}
			names = append(names, c.Name)
			args = append(args, database.Coerce(values[i], c.Type))
		}
		if len(names) == 0 {
			return Stay(), fmt.Errorf("enter at least one value")
		}
		res, err := ctx.Session.InsertRow(table, names, args)
		if err != nil {
			return done("Insert Record", res, err), nil
		}
		msg := fmt.Sprintf("Inserted row %d into %s", res.LastInsertID, table)
		return Replace(newMessage("Insert Record", msg, false)), nil
	})
	f.note = "Blank fields use the column default; type null for NULL."
	return Replace(f)
}

// updateForm sets one column of one row, addressed by rowid.
func updateForm(ctx *Context, table string) Action {
	cols, err := ctx.Session.TableSchema(table)
	if err != nil {
		return Replace(errorMessage("Update Record", err))
	}
	names := database.ColumnNames(cols)

	f := newForm("Update "+table, []field{
		{label: "rowid", placeholder: "1"},
		{label: "Column", placeholder: names[0], suggestions: names},
		{label: "New value (blank or null for NULL)"},
	}, func(ctx *Context, values []string) (Action, error) {
		rowID, err := parseRowID(values[0])
		if err != nil {
			return Stay(), err
		}
		col, ok := findColumn(cols, strings.TrimSpace(values[1]))
		if !ok {
			return Stay(), fmt.Errorf("no column %q in %s", values[1], table)
		}
		res, err := ctx.Session.UpdateCell(table, rowID, col.Name, database.Coerce(values[2], col.Type))
		return done("Update Record", res, err), nil
	})
	f.note = "Columns: " + strings.Join(names, ", ")
	return Replace(f)
}

// deleteForm asks for a rowid, then for confirmation.
func deleteForm(_ *Context, table string) Action {
	return Replace(newForm("Delete from "+table, []field{
		{label: "rowid", placeholder: "1"},
	}, func(ctx *Context, values []string) (Action, error) {
		rowID, err := parseRowID(values[0])
		if err != nil {
			return Stay(), err
		}
		prompt := fmt.Sprintf("Delete row %d from %s?", rowID, table)
		return Replace(newConfirm("Delete Record", prompt, func(ctx *Context) Action {
			res, err := ctx.Session.DeleteRow(table, rowID)
			return done("Delete Record", res, err)
		})), nil
	}))
}

func createTableForm() *form {
	return newForm("Create Table", []field{
		{label: "Table name", placeholder: "notes"},
		{label: "Column definitions", placeholder: "id INTEGER PRIMARY KEY, body TEXT NOT NULL"},
	}, func(ctx *Context, values []string) (Action, error) {
		name := strings.TrimSpace(values[0])
		if err := database.ValidateIdentifier(name); err != nil {
			return Stay(), err
		}
		res, err := ctx.Session.CreateTable(name, values[1])
		if err != nil {
			return Stay(), err
		}
		return Replace(newMessage("Create Table", fmt.Sprintf("Created table %s (%s)", name, res.Summary()), false)), nil
	})
}

func dropConfirm(_ *Context, table string) Action {
	prompt := fmt.Sprintf("Drop table %s and all its rows? Type yes to confirm.", table)
	return Replace(newTypedConfirm("Drop Table", prompt, func(ctx *Context) Action {
		res, err := ctx.Session.DropTable(table)
		return done("Drop Table", res, err)
	}))
}

func structureView(ctx *Context, table string) Action {
	info, err := ctx.Session.TableStructure(table)
	if err != nil {
		return Replace(errorMessage("Table Structure", err))
	}
	return Replace(newTextView("Structure: "+table, func(width int) string {
		return renderStructure(info, width)
	}))
}

// renderStructure lays out columns, indexes, foreign keys and row count.
func renderStructure(info *database.TableInfo, width int) string {
	var b strings.Builder

	headers := []string{"Column Name", "Type", "Not Null", "Default", "Primary Key"}
	rows := make([][]any, len(info.Columns))
	for i, c := range info.Columns {
		rows[i] = []any{c.Name, c.Type, yesNo(c.NotNull), c.Default(), yesNo(c.IsPrimaryKey())}
	}
	frame := grid.Table(headers, rows, width, grid.BoxStyle)

	b.WriteString(labelStyle.Render("Columns"))
	b.WriteString("\n")
	if !frame.Plain {
		b.WriteString(tableHeaderStyle.Render(frame.Header) + "\n")
		b.WriteString(separatorStyle.Render(frame.Separator) + "\n")
	}
	for _, l := range frame.Lines {
		b.WriteString(l + "\n")
	}

	b.WriteString("\n" + labelStyle.Render("Indexes") + "\n")
	if len(info.Indexes) == 0 {
		b.WriteString(dimItemStyle.Render("  (none)") + "\n")
	}
	for _, idx := range info.Indexes {
		unique := ""
		if idx.Unique {
			unique = " unique"
		}
		fmt.Fprintf(&b, "  %s%s (%s)\n", idx.Name, unique, strings.Join(idx.Columns, ", "))
	}

	b.WriteString("\n" + labelStyle.Render("Foreign keys") + "\n")
	if len(info.ForeignKeys) == 0 {
		b.WriteString(dimItemStyle.Render("  (none)") + "\n")
	}
	for _, fk := range info.ForeignKeys {
		fmt.Fprintf(&b, "  %s -> %s(%s)", fk.From, fk.Table, fk.To)
		if fk.OnDelete != "" && fk.OnDelete != "NO ACTION" {
			fmt.Fprintf(&b, " on delete %s", strings.ToLower(fk.OnDelete))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n%s %d\n", labelStyle.Render("Rows:"), info.RowCount)
	if info.SQL != "" {
		b.WriteString("\n" + dimItemStyle.Render(info.SQL) + "\n")
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "YES"
	}
	return "NO"
}

func parseRowID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("rowid must be a whole number, got %q", s)
	}
	return id, nil
}

func findColumn(cols []database.ColumnInfo, name string) (database.ColumnInfo, bool) {
	for _, c := range cols {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return database.ColumnInfo{}, false
}
