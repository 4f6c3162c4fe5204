package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/png"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"github.com/pkg/errors"

	qr "github.com/unixdj/dualqr"
	"github.com/unixdj/dualqr/coding"
	"github.com/unixdj/dualqr/dual"
	"github.com/unixdj/dualqr/scan"
)

var g = struct {
	scale   int             // scale
	border  int             // quiet zone
	palette *[2]color.Color // palette
	rev     bool            // reverse colours
	fn      string          // output filename
	lev     coding.Level    // QR correction level
	ver     coding.Version  // QR version
	mask    coding.Mask     // mask pattern
	mode    coding.Mode     // encoding mode
	format  int             // output file format
	bg, fg  rgba            // colour
	colSet  bool            // colour set
	decode  bool            // decode images
	private *string         // private payload
	key     []byte          // private channel key
	keyFile string          // file holding the key
	ecc     int             // private check symbols per block
	verbose bool            // report code parameters
}{
	bg: rgba{0xff, 0xff, 0xff, 0xff},
	fg: rgba{0x00, 0x00, 0x00, 0xff},
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	prog := cl.Program()
	ul := make([]string, 1, 4)
	ul[0] = cl.UsageLine() + " [string ...]"
	ml := max(70-len("Usage: ")-1-len(prog), 0)
	for i := 0; len(ul[i]) > ml; i++ {
		s := ul[i]
		n := ml - 1
		for n > 0 && (s[n] != ' ' || s[n+1] != '[') {
			n--
		}
		ul = append(ul, s[n+1:])
		ul[i] = s[:max(n, 0)]
		ml = 60
	}
	fmt.Fprint(w, "Two level QR code generator\nUsage: ", prog, " ",
		strings.Join(ul, "\n          "), `
If no string is given, data is read from standard input and the final
newline is stripped.  With -p, the private payload is hidden in the
black modules of the code, readable with the key given by -k or -K.
With -d, the arguments are image files to decode.

`)
	getopt.CommandLine.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 0.9.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2025 Vadim Vygonets`)
	os.Exit(0)
}

// genKey prints a fresh random key.
func genKey() {
	fmt.Println(uuid.NewString())
	os.Exit(0)
}

type rgba struct {
	R, G, B, A uint8
}

func (c *rgba) String() string {
	switch {
	case *c == (rgba{0x00, 0x00, 0x00, 0xff}):
		return "black"
	case *c == (rgba{0xff, 0xff, 0xff, 0xff}):
		return "white"
	case c.A == 0xff:
		return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c *rgba) Set(s string, _ getopt.Option) error {
	g.colSet = true
	switch strings.ToLower(s) {
	case "black":
		*c = rgba{0x00, 0x00, 0x00, 0xff}
		return nil
	case "white":
		*c = rgba{0xff, 0xff, 0xff, 0xff}
		return nil
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("%q: bad colour spec", s)
	}
	switch len(s) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		var nn uint64
		for i := 0; i < 4; i++ {
			nn <<= 8
			nn |= n >> 12 & 0xf * 0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return fmt.Errorf("%q: bad colour spec", s)
	}
	c.R, c.G, c.B, c.A = uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)
	return nil
}

var formats = []string{
	"png", "pngi", "gif", "gifi", "pbm", "pbmi", "svg", "svgi",
	"utf8", "utf8i", "ascii", "asciii", "ansi", "ansii",
}

var encoders = [...]func(*qr.Code, io.Writer) error{
	(*qr.Code).EncodePNG,
	(*qr.Code).EncodeGIF,
	(*qr.Code).EncodePBM,
	(*qr.Code).SVG,
	func(c *qr.Code, w io.Writer) error {
		_, err := fmt.Fprint(w, c)
		return err
	},
	(*qr.Code).ASCII,
	(*qr.Code).Terminal,
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.Flag(opt(genKey), 'G', "print a random key and exit").SetFlag()
	getopt.FlagLong(&g.bg, "background", 'B', `background colour; see -F`,
		"RGB[A]|name")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3, 4, 6 or 8 hex digits, "black" or "white"; `+
		`only for types png[i], gif[i] and svg[i]`, "RGB[A]|name")
	getopt.Flag(&g.decode, 'd', "decode image files (PNG, GIF) "+
		"given as arguments, or standard input")
	getopt.Flag(&g.verbose, 'x', "report version, level, mask "+
		"and private channel layout")
	cfgFile := getopt.String('c', "", `JSON configuration file `+
		`supplying defaults [$QR_CONFIG]`, "config")
	getopt.Flag(&g.border, 'm', `quiet zone modules [4]`, "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	priv := getopt.String('p', "", "private payload for a two level code",
		"private")
	key := getopt.String('k', "", "private channel key", "key")
	getopt.Flag(&g.keyFile, 'K', "read the private channel key "+
		"from a file", "keyfile")
	ecc := getopt.Unsigned('w', uint64(dual.DefaultECCWords),
		&getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 1, Max: dual.BlockSize - 1},
		"private check symbols per block of 7", "eccwords")
	ver := getopt.Unsigned('v', 0, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: 40},
		"QR code version, 0 for the smallest that fits", "ver")
	mask := getopt.Signed('M', -1, &getopt.SignedLimit{Base: 0, Bits: 8, Min: -1, Max: 7},
		"mask pattern, -1 for the lowest penalty", "mask")
	mode := getopt.Enum('E', []string{"auto", "numeric", "alphanumeric",
		"byte", "kanji", "latin1"}, "",
		"encoding mode; default: mixed modes, most compact", "mode")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "m",
		"error correction level, lowest to highest", "l|m|q|h")
	scale := getopt.Unsigned('s', 0,
		&(getopt.UnsignedLimit{Base: 0, Bits: 16, Min: 1, Max: 1 << 12}),
		`image pixels per module [8, two level codes 10]; `+
			`ignored for types utf8[i], ascii[i] and ansi[i]`, "scale")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	c, err := loadConfig(*cfgFile)
	if err != nil {
		log.Fatalln(err)
	}
	if !getopt.IsSet('l') && c.Level != "" {
		*lev = c.Level
	}
	if !getopt.IsSet('s') && c.Scale != 0 {
		*scale = uint64(c.Scale)
	}
	if !getopt.IsSet('t') && c.Type != "" {
		*ff = c.Type
	}
	if !getopt.IsSet('K') && !getopt.IsSet('k') {
		g.keyFile = c.KeyFile
	}
	if !getopt.IsSet('w') && c.ECCWords != 0 {
		*ecc = uint64(c.ECCWords)
	}

	if g.lev, err = coding.ParseLevel(*lev); err != nil {
		log.Fatalln(err)
	}
	g.ver = coding.Version(*ver)
	g.mask = coding.Mask(*mask)
	g.ecc = int(*ecc)
	g.scale = int(*scale)
	if *mode != "" {
		if g.mode, err = coding.ParseMode(*mode); err != nil {
			log.Fatalln(err)
		}
	}
	if !getopt.IsSet('m') {
		g.border = -1
		if c.Margin != nil {
			g.border = *c.Margin
		}
	}
	if getopt.IsSet('p') {
		g.private = priv
	}
	switch {
	case getopt.IsSet('k'):
		g.key = []byte(*key)
	case g.keyFile != "":
		b, err := os.ReadFile(g.keyFile)
		if err != nil {
			log.Fatalln(errors.Wrap(err, "key file"))
		}
		g.key = bytes.TrimSuffix(bytes.TrimSuffix(b, []byte("\n")), []byte("\r"))
	}
	if g.private != nil && g.key == nil {
		fmt.Fprintln(os.Stderr, "-p requires -k or -K")
		usage()
	}
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	g.format = -1
	for i, v := range formats {
		if *ff == v {
			g.format = i >> 1
			g.rev = i&1 != 0
			break
		}
	}
	if g.format < 0 {
		log.Fatalf("%q: unknown output type", *ff)
	}
	// Image types draw glyphs a sub-cell per pixel at least.
	if g.private != nil && g.format < 4 && g.scale != 0 && g.scale < scan.Sub {
		log.Fatalf("scale %d: two level codes need at least %d", g.scale, scan.Sub)
	}
	if g.fn == "-" {
		g.fn = ""
	}
	if g.colSet {
		g.palette = &[2]color.Color{color.RGBA(g.bg), color.RGBA(g.fg)}
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix(os.Args[0] + ": ")
	parseFlags()
	if g.decode {
		decode(getopt.Args())
		return
	}

	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalln(err)
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}

	c, err := encode(s)
	if err != nil {
		log.Fatalln(errors.Wrap(err, "encode"))
	}
	if g.verbose {
		log.Printf("version %d, level %v, mask %v, %d modules",
			c.Version, c.Level, c.Mask, c.Size)
		if c.Patterns != nil {
			log.Printf("%d private symbols in %d blocks, %d check symbols each",
				c.Patterns.Count(),
				(c.Patterns.Count()+dual.BlockSize-1)/dual.BlockSize, g.ecc)
		}
	}
	write(c)
}

func encode(s string) (*qr.Code, error) {
	if g.private != nil {
		return qr.Encode2L(s, []byte(*g.private), g.key, dual.Options{
			Level:    g.lev,
			Version:  g.ver,
			Mask:     g.mask,
			Mode:     g.mode,
			Optimize: !getopt.IsSet('E'),
			ECCWords: g.ecc,
		})
	}
	return qr.EncodeOpts(s, coding.Options{
		Level:    g.lev,
		Version:  g.ver,
		Mask:     g.mask,
		Mode:     g.mode,
		Optimize: !getopt.IsSet('E'),
	})
}

func write(c *qr.Code) {
	var w = os.Stdout
	if g.fn != "" {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatalln(err)
		}
	}
	if g.scale != 0 {
		c.Scale = g.scale
	}
	c.Palette = g.palette
	c.Reverse = g.rev
	if g.border >= 0 {
		c.Border = g.border
	}
	err := encoders[g.format](c, w)
	if g.fn != "" && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalln(err)
	}
}

// decode prints the contents of the image files in args, or of
// standard input.
func decode(args []string) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, fn := range args {
		if err := decodeFile(fn); err != nil {
			log.Fatalln(errors.Wrap(err, fn))
		}
	}
}

func decodeFile(fn string) error {
	r := io.Reader(os.Stdin)
	if fn != "-" {
		f, err := os.Open(fn)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return errors.Wrap(err, "image")
	}
	if g.key == nil {
		res, err := qr.Decode(img)
		if err != nil {
			return err
		}
		if g.verbose {
			log.Printf("version %d, level %v, mask %v, %d segments",
				res.Version, res.Level, res.Mask, len(res.Segments))
		}
		fmt.Println(res.Text)
		return nil
	}
	res, err := qr.Decode2L(img, g.key, g.ecc)
	if err != nil {
		return err
	}
	if g.verbose {
		log.Printf("version %d, level %v, mask %v, %d private symbols corrected",
			res.Version, res.Level, res.Mask, res.Corrected)
	}
	fmt.Println(res.Public)
	fmt.Printf("%s\n", res.Private)
	return nil
}
