package mathconv

import "strings"

// environment translates \begin{name} ... \end{name}; start is the offset
// of \begin and p.pos sits after the command name.
func (p *parser) environment(start int) ([]string, error) {
	name, err := p.rawArg(`\begin`)
	if err != nil {
		return nil, err
	}
	token := `\begin{` + name + `}`

	switch {
	case alignedEnvs[name]:
		if strings.HasPrefix(name, "alignat") {
			if _, err := p.rawArg(token); err != nil {
				return nil, err
			}
		}
		items, stop, err := p.sequence(stopEnd)
		if err != nil {
			return nil, err
		}
		if stop != stopEnd {
			return nil, p.fail(start, p.pos, token, "unclosed environment")
		}
		if err := p.end(name); err != nil {
			return nil, err
		}
		return items, nil

	case name == "array":
		if _, err := p.rawArg(token); err != nil {
			return nil, err
		}
		return p.matrix(name, "#none", start)

	case name == "cases" || name == "dcases" || name == "rcases":
		rows, err := p.rows(start, token)
		if err != nil {
			return nil, err
		}
		if err := p.end(name); err != nil {
			return nil, err
		}
		parts := make([]string, 0, len(rows)+1)
		if name == "rcases" {
			parts = append(parts, "reverse: #true")
		}
		for _, row := range rows {
			parts = append(parts, strings.Join(row, " & "))
		}
		return []string{"cases(" + strings.Join(parts, ", ") + ")"}, nil
	}

	if delim, ok := matrixDelims[name]; ok {
		return p.matrix(name, delim, start)
	}
	return nil, p.fail(start, p.pos, token, "unknown environment")
}

func (p *parser) matrix(name, delim string, start int) ([]string, error) {
	token := `\begin{` + name + `}`
	rows, err := p.rows(start, token)
	if err != nil {
		return nil, err
	}
	if err := p.end(name); err != nil {
		return nil, err
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, ", ")
	}
	var b strings.Builder
	b.WriteString("mat(")
	if delim != "" {
		b.WriteString("delim: " + delim)
		if len(lines) > 0 {
			b.WriteString(", ")
		}
	}
	b.WriteString(strings.Join(lines, "; "))
	b.WriteString(")")
	return []string{b.String()}, nil
}

// rows splits an environment body into cells on & and rows on \\,
// stopping before \end. A trailing empty row is dropped.
func (p *parser) rows(start int, token string) ([][]string, error) {
	var rows [][]string
	var row []string
	for {
		p.argDepth++
		items, stop, err := p.sequence(stopAmp | stopRow | stopEnd)
		p.argDepth--
		if err != nil {
			return nil, err
		}
		cell := join(items)
		if cell == "" {
			cell = `""`
		}
		row = append(row, cell)

		switch stop {
		case stopAmp:
			p.pos++
		case stopRow:
			p.commandName()
			p.skipOptionalBracket()
			rows = append(rows, row)
			row = nil
		case stopEnd:
			if len(row) > 1 || len(items) > 0 {
				rows = append(rows, row)
			}
			return rows, nil
		default:
			return nil, p.fail(start, p.pos, token, "unclosed environment")
		}
	}
}

// end consumes \end{name}.
func (p *parser) end(name string) error {
	at := p.pos
	p.commandName()
	got, err := p.rawArg(`\end`)
	if err != nil {
		return err
	}
	if got != name {
		return p.fail(at, p.pos, `\end{`+got+`}`, "does not close \\begin{"+name+"}")
	}
	return nil
}
