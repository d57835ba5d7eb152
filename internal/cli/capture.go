package cli

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubr/internal/capture"
)

var (
	captureSolve bool
	captureNet   bool
	capturePlay  bool
)

var captureCmd = &cobra.Command{
	Use:   "capture <U> <F> <D> <B> <L> <R>",
	Short: "Read a cube's colors from six photos",
	Long: `Classify the stickers of a real cube from one photo per face.

Give the photos in capture order U F D B L R, each taken with the face
filling the sampling grid. The first three faces are held upside down
while photographing. Each sticker is reduced to its dominant color and
matched against the six center stickers.

Examples:
  cubr capture u.jpg f.jpg d.jpg b.jpg l.jpg r.jpg
  cubr capture --solve --play u.png f.png d.png b.png l.png r.png`,
	Args: cobra.ExactArgs(len(capture.CaptureOrder)),
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().BoolVar(&captureNet, "net", true, "Print the classified cube as an unfolded net")
	captureCmd.Flags().BoolVar(&captureSolve, "solve", false, "Send the result to the solver")
	captureCmd.Flags().BoolVar(&capturePlay, "play", false, "Open the solution in the interactive player (implies --solve)")
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sampler := capture.NewSampler(cfg.Grid(), rand.New(rand.NewSource(cfg.Capture.Seed)))
	session := capture.NewSession()

	for _, path := range args {
		face := session.Current()
		regions, err := sampleFile(sampler, path)
		if err != nil {
			return fmt.Errorf("face %c: %w", face, err)
		}
		session.Capture(regions)
		if verbose {
			fmt.Printf("Captured %c from %s\n", face, path)
		}
	}

	faceString, err := session.FaceString()
	if err != nil {
		return err
	}

	fmt.Println(faceString)
	if captureNet {
		fmt.Print(renderNet(faceString))
	}

	if !captureSolve && !capturePlay {
		return nil
	}
	fmt.Println()
	return solveAndShow(cmd.Context(), faceString, false, capturePlay)
}

// sampleFile decodes one photo and samples its nine sticker colors.
func sampleFile(s *capture.Sampler, path string) (regions [9]colorful.Color, err error) {
	f, err := os.Open(path)
	if err != nil {
		return regions, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := capture.Decode(f)
	if err != nil {
		return regions, err
	}
	return s.SampleFace(img)
}
