package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/linebot/pkg/capture"
	"github.com/robotalks/linebot/pkg/config"
	fx "github.com/robotalks/linebot/pkg/framework"
	"github.com/robotalks/linebot/pkg/panel"
	"github.com/robotalks/linebot/pkg/telemetry/mqtt"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	Headless    bool

	Shell  *ishell.Shell
	Config *config.Config
	Panel  *panel.Panel
	Runner *fx.Runner

	// Recorder is nil when capture is disabled.
	Recorder *capture.Recorder

	closers []func() error
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	headless   bool

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&ConnectCmd,
		&DisconnectCmd,
		&StatusCmd,
		&EchoCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.BoolVar(&headless, "headless", headless, "Run without shell until interrupted.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *config.Config, p *panel.Panel) *Shell {
	s := &Shell{
		Interactive: !evalOnly && !headless,
		OutputJSON:  outputJSON,
		Headless:    headless,

		Shell:  ishell.New(),
		Config: conf,
		Panel:  p,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if !ShellFrom(c).Panel.Link.Connected() {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// PrintJSON prints v in JSON.
func PrintJSON(c *ishell.Context, v interface{}) error {
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return err
	}
	c.Println(string(out))
	return nil
}

// Done prints the result of a command which has no output.
func Done(c *ishell.Context, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	if !ShellFrom(c).Interactive {
		c.Println("OK")
	}
}

// Connect connects a port.
func (s *Shell) Connect(port string) error {
	if err := s.Panel.Connect(port); err != nil {
		return err
	}
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", port))
	return nil
}

// Disconnect disconnects current port.
func (s *Shell) Disconnect() {
	s.Panel.Disconnect()
	s.Shell.SetPrompt(unconnectedPrompt)
}

// Start wires the event observers and runs the panel in background.
func (s *Shell) Start() error {
	if !s.Headless || bool(glog.V(1)) {
		s.Panel.AddHandler(&Display{Shell: s})
	}
	rec, err := s.Config.NewRecorder()
	if err != nil {
		return err
	}
	if rec != nil {
		s.Recorder = rec
		s.Panel.AddHandler(rec)
		s.closers = append(s.closers, rec.Close)
	}
	q, err := s.Config.NewQueue()
	if err != nil {
		return err
	}
	if q != nil {
		s.Panel.AddHandler(mqtt.NewPublisher(q, s.Config.Identity()))
		s.closers = append(s.closers, q.Close)
	}

	s.Runner = fx.NewRunner().HandleSignals()
	if hub := s.Config.NewHub(); hub != nil {
		s.Panel.AddHandler(hub)
		s.Runner.Go(fx.NamedRun("websocket", hub))
	}
	s.Runner.Go(fx.NamedRun("panel", s.Panel))

	if port := s.Config.Port; port != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", port)
		}
		if err := s.Connect(port); err != nil {
			return fmt.Errorf("connect %q failed: %w", port, err)
		}
	}
	return nil
}

// Stop disconnects, stops the panel and releases the observers.
func (s *Shell) Stop() error {
	s.Disconnect()
	var errs fx.AggregatedError
	if s.Runner != nil {
		s.Runner.Stop()
		errs.Add(s.Runner.Wait())
	}
	for _, closer := range s.closers {
		errs.Add(closer())
	}
	return errs.Aggregate()
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Headless {
		err := s.Runner.Wait()
		s.Runner = nil
		if err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf, err := config.Resolve()
	if err != nil {
		log.Fatalln(err)
	}
	p, err := conf.NewPanel()
	if err != nil {
		log.Fatalln(err)
	}
	s := New(conf, p)
	if err := s.Start(); err != nil {
		log.Fatalln(err)
	}
	s.Run(flag.Args()...)
	if err := s.Stop(); err != nil {
		glog.Error(err)
	}
}
