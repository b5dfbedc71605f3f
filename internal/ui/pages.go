package ui

import (
	"fmt"

	"wardgate/internal/domain"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func pageShell(title string, body ...Node) Node {
	return HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | Ward Gate")),
			Link(Rel("icon"), Href("data:,")),
			Link(Rel("stylesheet"), Href("/ui/static/app.css")),
		),
		Body(
			Main(Class("wrap"), Group(body)),
		),
	)
}

func loginPage(errMsg string) Node {
	content := []Node{
		H1(Text("Ward Gate")),
		P(Class("muted"), Text("Sign in to view the patient table.")),
		Form(
			Method("post"),
			Action("/ui/login"),
			Class("login-form"),
			Label(For("username"), Text("Username")),
			Input(Type("text"), ID("username"), Name("username"), AutoComplete("username"), Required()),
			Label(For("password"), Text("Password")),
			Input(Type("password"), ID("password"), Name("password"), AutoComplete("current-password"), Required()),
			Button(Type("submit"), Class("btn"), Text("Sign In")),
		),
	}
	if errMsg != "" {
		content = append([]Node{P(Class("error"), Text(errMsg))}, content...)
	}
	return pageShell("Sign in", content...)
}

func tablePage(username, tableName string, result *domain.ResultTable) Node {
	headerCells := make([]Node, 0, len(result.Columns))
	for _, col := range result.Columns {
		headerCells = append(headerCells, Th(Text(col)))
	}

	bodyRows := make([]Node, 0, len(result.Rows))
	for _, row := range result.Rows {
		cells := make([]Node, 0, len(row))
		for _, v := range row {
			cells = append(cells, Td(Text(cellText(v))))
		}
		bodyRows = append(bodyRows, Tr(Group(cells)))
	}

	return pageShell(tableName,
		Div(
			Class("topbar"),
			H1(Text(tableName)),
			Div(
				Span(Class("muted"), Text("Signed in as "+username)),
				Form(
					Method("post"),
					Action("/ui/logout"),
					Class("inline"),
					Button(Type("submit"), Class("btn btn-sm"), Text("Sign out")),
				),
			),
		),
		P(Class("muted"), Text(fmt.Sprintf("%d rows", result.RowCount))),
		Table(
			Class("data-table"),
			THead(Tr(Group(headerCells))),
			TBody(Group(bodyRows)),
		),
	)
}

func errorPage(title, message string) Node {
	return pageShell(title,
		H1(Text(title)),
		P(Text(message)),
		A(Href("/ui"), Text("Back")),
	)
}

func cellText(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
