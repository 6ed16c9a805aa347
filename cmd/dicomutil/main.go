// dicomutil prints the elements of a DICOM file and optionally extracts
// its encapsulated frames.
//
//   dicomutil [-stream] [-extract-images] [-v N] <dicomfile>
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	dicom "github.com/odincare/dcmlite"
	"github.com/odincare/dcmlite/dicomlog"
	"github.com/odincare/dcmlite/dicomtag"
	"github.com/odincare/dcmlite/dicomvr"
	"github.com/sirupsen/logrus"
)

var (
	printMetadata = flag.Bool("print-metadata", true, "Print image metadata")
	extractImages = flag.Bool("extract-images", false, "Extract images into separate files")
	stream        = flag.Bool("stream", false, "Print elements as they are decoded instead of building a data set")
	dropPixelData = flag.Bool("drop-pixel-data", false, "Stop reading at PixelData")
	verbosity     = flag.Int("v", 0, "Log verbosity; -1 disables logging")
)

func main() {
	flag.Parse()
	if len(flag.Args()) == 0 {
		logrus.Fatal("dicomutil <dicomfile>")
	}
	dicomlog.SetLevel(*verbosity)
	path := flag.Arg(0)
	options := dicom.ReadOptions{DropPixelData: *dropPixelData}

	if *stream {
		if err := dicom.NewReader(&streamPrinter{out: os.Stdout}, options).ReadFile(path); err != nil {
			logrus.Fatal(err)
		}
		return
	}

	data, err := dicom.ReadDataSetFromFile(path, options)
	if err != nil {
		logrus.Fatal(err)
	}
	if *printMetadata {
		for _, elem := range data.Elements {
			fmt.Printf("%v\n", elem.String())
		}
	}
	if *extractImages {
		x := &frameExtractor{}
		for _, elem := range data.Elements {
			if err := dicom.Visit(x, elem); err != nil {
				logrus.Fatal(err)
			}
		}
	}
}

// streamPrinter prints reader callbacks, indented by nesting depth.
type streamPrinter struct {
	out   io.Writer
	depth int
}

func (p *streamPrinter) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, strings.Repeat("  ", p.depth)+format+"\n", args...)
}

func (p *streamPrinter) OnElement(elem *dicom.DataElement) error {
	p.printf("%v", elem)
	return nil
}

func (p *streamPrinter) OnSequenceStart(tag dicomtag.Tag, vr dicomvr.VR, length uint32) error {
	p.printf("%s %v length=%d [", dicomtag.DebugString(tag), vr, length)
	p.depth++
	return nil
}

func (p *streamPrinter) OnSequenceEnd(tag dicomtag.Tag) error {
	p.depth--
	p.printf("]")
	return nil
}

func (p *streamPrinter) OnItemStart(length uint32) error {
	p.printf("item length=%d [", length)
	p.depth++
	return nil
}

func (p *streamPrinter) OnItemEnd() error {
	p.depth--
	p.printf("]")
	return nil
}

func (p *streamPrinter) OnEncapsulated(elem *dicom.EncapsulatedElement) error {
	p.printf("%v", elem)
	return nil
}

// frameExtractor writes every PixelData frame to image.<n>.<ext> in dir.
type frameExtractor struct {
	dir string
	n   int
}

func (x *frameExtractor) VisitDataElement(e *dicom.DataElement) error {
	if e.Tag() != dicomtag.PixelData {
		return nil
	}
	return x.write(e.Buffer(), "raw")
}

func (x *frameExtractor) VisitSequence(*dicom.SequenceElement) error { return nil }

func (x *frameExtractor) VisitEncapsulated(p *dicom.EncapsulatedElement) error {
	if p.Tag() != dicomtag.PixelData {
		return nil
	}
	for _, frame := range p.Fragments {
		imgType := getFormat(bytes.NewBuffer(frame))
		if imgType == "" {
			imgType = "jpg" // set default format
		}
		if err := x.write(frame, imgType); err != nil {
			return err
		}
	}
	return nil
}

func (x *frameExtractor) write(data []byte, imgType string) error {
	path := filepath.Join(x.dir, fmt.Sprintf("image.%d.%s", x.n, imgType))
	x.n++
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	fmt.Printf("%s: %d bytes\n", path, len(data))
	return nil
}

func getFormat(file io.Reader) string {
	bytes := make([]byte, 4)
	n, _ := file.Read(bytes)
	if n < 4 {
		return ""
	}
	if bytes[0] == 0x89 && bytes[1] == 0x50 && bytes[2] == 0x4E && bytes[3] == 0x47 {
		return "png"
	}
	if bytes[0] == 0xFF && bytes[1] == 0xD8 {
		return "jpg"
	}
	if bytes[0] == 0x47 && bytes[1] == 0x49 && bytes[2] == 0x46 && bytes[3] == 0x38 {
		return "gif"
	}
	if bytes[0] == 0x42 && bytes[1] == 0x4D {
		return "bmp"
	}
	return ""
}
