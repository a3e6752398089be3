package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/postforge/internal/app"
	"github.com/dshills/postforge/internal/post"
)

var errUsage = errors.New("usage")

// command is one REPL verb. rest is the raw text after the verb.
type command struct {
	name  string
	args  string
	help  string
	run   func(r *repl, args []string, rest string) error
	alias []string
}

// repl is the line-based editor.
type repl struct {
	session *app.Session
	in      *bufio.Scanner
	out     io.Writer
	ctx     context.Context

	commands map[string]*command
	order    []*command
}

func newREPL(session *app.Session, in io.Reader, out io.Writer) *repl {
	r := &repl{
		session:  session,
		in:       bufio.NewScanner(in),
		out:      out,
		ctx:      context.Background(),
		commands: make(map[string]*command),
	}
	for _, c := range replCommands() {
		r.order = append(r.order, c)
		r.commands[c.name] = c
		for _, a := range c.alias {
			r.commands[a] = c
		}
	}
	return r
}

// Run reads commands until quit, EOF or ctx is done.
func (r *repl) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		r.prompt()
		line, ok := r.readLine()
		if !ok {
			fmt.Fprintln(r.out)
			return r.in.Err()
		}
		if err := r.exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintln(r.out, renderError(err))
		}
	}
}

func (r *repl) prompt() {
	status := renderStatus(r.session.Status())
	if status != "" {
		status = " " + status
	}
	fmt.Fprintf(r.out, "%s%s> ", titleStyle.Render("postforge"), status)
}

func (r *repl) readLine() (string, bool) {
	if !r.in.Scan() {
		return "", false
	}
	return r.in.Text(), true
}

// exec runs one line.
func (r *repl) exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	r.ctx = ctx
	c, ok := r.commands[strings.ToLower(verb)]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", verb)
	}
	err := c.run(r, strings.Fields(rest), rest)
	if errors.Is(err, errUsage) {
		return fmt.Errorf("usage: %s %s", c.name, c.args)
	}
	return err
}

// edit commits producers as one step. Invalid results are reported and
// leave the state unchanged.
func (r *repl) edit(producers ...post.Producer) error {
	changed, err := r.session.Edit(producers...)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(r.out, mutedStyle.Render("no change"))
	}
	return nil
}

func (r *repl) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func replCommands() []*command {
	return []*command{
		{name: "text", args: "<text>", help: `set the post text (\n for a line break)`, run: cmdText},
		{name: "user", args: "<name>", help: "set the username", run: cmdUser},
		{name: "color", args: "<#hex>", help: "set the text colour", run: cmdColor},
		{name: "font", args: "<name>", help: "set the font family", run: cmdFont},
		{name: "size", args: "<px>", help: "set the font size", run: cmdSize},
		{name: "padding", args: "<px>", help: "set the canvas padding", run: cmdPadding},
		{name: "aspect", args: "<ratio>", help: "set the aspect ratio", run: cmdAspect},
		{name: "align", args: "left|center|right|justify", help: "set the text alignment", run: cmdAlign},
		{name: "bg", args: "<swatch|colour|css>|reset", help: "set the background", run: cmdBackground, alias: []string{"background"}},
		{name: "gradient", args: "<start> <end> [angle]", help: "build a linear gradient background", run: cmdGradient},
		{name: "filter", args: "<name> [percent]", help: "set or toggle an image filter", run: cmdFilter},
		{name: "effect", args: "<kind> on|off", help: "switch a text effect", run: cmdEffect},
		{name: "image", args: "<slot> <file>|clear", help: "set or clear an image (profile, background, content, textFill)", run: cmdImage},
		{name: "template", args: "<name>", help: "apply a built-in template", run: cmdTemplate},
		{name: "preset", args: "save [name]|apply <name>|delete <name>|list", help: "manage style presets", run: cmdPreset},
		{name: "undo", help: "undo the last change", run: cmdUndo, alias: []string{"u"}},
		{name: "redo", help: "redo the last undone change", run: cmdRedo, alias: []string{"r"}},
		{name: "history", help: "list the undo history", run: cmdHistory},
		{name: "export", help: "render the post to a PNG", run: cmdExport},
		{name: "save", help: "save the session now", run: cmdSave},
		{name: "status", help: "show the autosave status", run: cmdStatus},
		{name: "show", help: "show the post and its CSS", run: cmdShow},
		{name: "help", help: "list commands", run: cmdHelp, alias: []string{"?"}},
		{name: "quit", help: "leave the editor", run: cmdQuit, alias: []string{"exit", "q"}},
	}
}

func cmdText(r *repl, _ []string, rest string) error {
	return r.edit(post.SetText(strings.ReplaceAll(rest, `\n`, "\n")))
}

func cmdUser(r *repl, _ []string, rest string) error {
	return r.edit(post.SetUsername(rest))
}

func cmdColor(r *repl, args []string, _ string) error {
	if len(args) != 1 {
		return errUsage
	}
	return r.edit(post.SetTextColor(args[0]))
}

func cmdFont(r *repl, _ []string, rest string) error {
	o, err := lookup(post.Fonts, "font", rest)
	if err != nil {
		return err
	}
	return r.edit(post.SetFont(o.Value))
}

func cmdSize(r *repl, args []string, _ string) error {
	n, err := intArg(args)
	if err != nil {
		return err
	}
	return r.edit(post.SetFontSize(n))
}

func cmdPadding(r *repl, args []string, _ string) error {
	n, err := intArg(args)
	if err != nil {
		return err
	}
	return r.edit(post.SetPadding(n))
}

func cmdAspect(r *repl, _ []string, rest string) error {
	o, err := lookup(post.AspectRatios, "aspect ratio", rest)
	if err != nil {
		return err
	}
	return r.edit(post.SetAspectRatio(o.Value))
}

func cmdAlign(r *repl, args []string, _ string) error {
	if len(args) != 1 {
		return errUsage
	}
	a := post.TextAlign(args[0])
	if !a.Valid() {
		return fmt.Errorf("unknown alignment %q", args[0])
	}
	return r.edit(post.SetAlign(a))
}

func cmdBackground(r *repl, _ []string, rest string) error {
	switch {
	case rest == "":
		return errUsage
	case rest == "reset":
		return r.edit(post.ResetBackground())
	}
	if o, ok := post.LookupOption(post.Backgrounds, rest); ok {
		rest = o.Value
	}
	return r.edit(post.SetBackground(rest))
}

func cmdGradient(r *repl, args []string, _ string) error {
	if len(args) < 2 || len(args) > 3 {
		return errUsage
	}
	g := post.Gradient{Start: args[0], End: args[1], Angle: post.DefaultGradient().Angle}
	if len(args) == 3 {
		n, err := strconv.Atoi(strings.TrimSuffix(args[2], "deg"))
		if err != nil {
			return fmt.Errorf("invalid angle %q", args[2])
		}
		g.Angle = n
	}
	return r.edit(post.SetGradient(g))
}

func cmdFilter(r *repl, args []string, _ string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage
	}
	name := post.FilterName(args[0])
	if _, err := r.session.State().Filters.Get(name); err != nil {
		return err
	}
	if len(args) == 1 {
		switch name {
		case post.FilterGrayscale, post.FilterSepia, post.FilterInvert:
			return r.edit(post.ToggleFilter(name))
		}
		return fmt.Errorf("%s needs a percentage", name)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
	if err != nil {
		return fmt.Errorf("invalid percentage %q", args[1])
	}
	return r.edit(post.SetFilter(name, n))
}

func cmdEffect(r *repl, args []string, _ string) error {
	if len(args) != 2 {
		return errUsage
	}
	kind, err := post.ParseEffectKind(args[0])
	if err != nil {
		return err
	}
	var on bool
	switch args[1] {
	case "on":
		on = true
	case "off":
	default:
		return errUsage
	}
	return r.edit(post.ToggleEffect(kind, on))
}

func cmdImage(r *repl, args []string, _ string) error {
	if len(args) != 2 {
		return errUsage
	}
	slot, err := post.ParseImageSlot(args[0])
	if err != nil {
		return err
	}
	if args[1] == "clear" {
		return r.edit(post.ClearImage(slot))
	}
	url, err := readDataURL(args[1])
	if err != nil {
		return err
	}
	return r.edit(post.SetImage(slot, url))
}

// readDataURL loads an image file as a data URL.
func readDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func cmdTemplate(r *repl, _ []string, rest string) error {
	if rest == "" {
		for _, t := range post.Templates() {
			r.printf("  %s\n", t.Name)
		}
		return nil
	}
	_, err := r.session.ApplyTemplate(rest)
	return err
}

func cmdPreset(r *repl, args []string, rest string) error {
	if len(args) == 0 {
		return errUsage
	}
	ctx := r.ctx
	_, name, _ := strings.Cut(rest, " ")
	name = strings.TrimSpace(name)

	switch args[0] {
	case "list":
		presets := r.session.Presets()
		if len(presets) == 0 {
			r.printf("%s\n", mutedStyle.Render("no presets"))
		}
		for _, p := range presets {
			r.printf("  %s\n", p.Name)
		}
		return nil
	case "save":
		if name != "" {
			if err := r.session.SavePresetAs(ctx, name); err != nil {
				return err
			}
			r.printf("%s\n", okStyle.Render("Preset saved: "+name))
			return nil
		}
		saved, ok, err := r.session.SavePreset(ctx)
		if err != nil || !ok {
			return err
		}
		r.printf("%s\n", okStyle.Render("Preset saved: "+strings.TrimSpace(saved)))
		return nil
	case "apply":
		if name == "" {
			return errUsage
		}
		_, err := r.session.ApplyPreset(name)
		return err
	case "delete":
		if name == "" {
			return errUsage
		}
		ok, err := r.session.DeletePreset(ctx, name)
		if err == nil && ok {
			r.printf("%s\n", okStyle.Render("Preset deleted: "+name))
		}
		return err
	}
	return errUsage
}

func cmdUndo(r *repl, _ []string, _ string) error {
	if !r.session.Undo() {
		r.printf("%s\n", mutedStyle.Render("nothing to undo"))
	}
	return nil
}

func cmdRedo(r *repl, _ []string, _ string) error {
	if !r.session.Redo() {
		r.printf("%s\n", mutedStyle.Render("nothing to redo"))
	}
	return nil
}

func cmdHistory(r *repl, _ []string, _ string) error {
	entries, _ := r.session.History()
	for _, e := range entries {
		marker := "  "
		if e.Current {
			marker = "> "
		}
		r.printf("%s%3d  %s\n", marker, e.Index, mutedStyle.Render(e.Timestamp.Format("15:04:05")))
	}
	return nil
}

func cmdExport(r *repl, _ []string, _ string) error {
	r.printf("%s\n", mutedStyle.Render("Exporting..."))
	path, err := r.session.Export(r.ctx)
	if err != nil {
		return err
	}
	r.printf("%s %s\n", okStyle.Render("Exported"), path)
	return nil
}

func cmdSave(r *repl, _ []string, _ string) error {
	return r.session.SaveNow(r.ctx)
}

func cmdStatus(r *repl, _ []string, _ string) error {
	st := r.session.Status()
	label := renderStatus(st)
	if label == "" {
		label = mutedStyle.Render("no changes")
	}
	r.printf("%s  undo:%t redo:%t\n", label, r.session.CanUndo(), r.session.CanRedo())
	return nil
}

func cmdShow(r *repl, _ []string, _ string) error {
	printState(r.out, r.session.State())
	return nil
}

func cmdHelp(r *repl, _ []string, _ string) error {
	for _, c := range r.order {
		usage := c.name
		if c.args != "" {
			usage += " " + c.args
		}
		r.printf("  %-44s %s\n", usage, mutedStyle.Render(c.help))
	}
	return nil
}

func cmdQuit(*repl, []string, string) error {
	return errQuit
}

func lookup(options []post.Option, what, key string) (post.Option, error) {
	if o, ok := post.LookupOption(options, key); ok {
		return o, nil
	}
	names := make([]string, len(options))
	for i, o := range options {
		names[i] = o.Label
	}
	sort.Strings(names)
	return post.Option{}, fmt.Errorf("unknown %s %q (one of: %s)", what, key, strings.Join(names, ", "))
}

func intArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	n, err := strconv.Atoi(strings.TrimSuffix(args[0], "px"))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[0])
	}
	return n, nil
}
