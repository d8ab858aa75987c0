package main

import (
	"github.com/spf13/cobra"

	"github.com/soocke/pagewarp-go/config"
	"github.com/soocke/pagewarp-go/domain/geometry"
	"github.com/soocke/pagewarp-go/domain/imageio"
	"github.com/soocke/pagewarp-go/domain/warp"
)

func newReshapeCmd(g *globalFlags) *cobra.Command {
	var (
		corners string
		nearest bool
		out     string
	)
	cmd := &cobra.Command{
		Use:   "reshape IMAGE",
		Short: "Straighten the page bounded by --corners and save it next to IMAGE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := g.setup(cmd)
			src, err := imageio.Load(args[0])
			if err != nil {
				return err
			}
			q := geometry.RectQuad(src.Bounds())
			if corners != "" {
				if q, err = parseCorners(corners); err != nil {
					return err
				}
			}
			interp := warp.ParseInterpolation(cfg.Interpolation)
			if nearest {
				interp = warp.Nearest
			}
			img, err := warp.Transform(src, q, warp.Options{Interpolation: interp})
			if err != nil {
				return err
			}
			if out == "" {
				out, err = imageio.SaveCropped(args[0], imageio.DefaultSuffix, img, cfg.JPEGQuality)
			} else {
				err = imageio.Save(out, img, cfg.JPEGQuality)
			}
			if err != nil {
				return err
			}
			b := img.Bounds()
			logger.Debug("reshape", "src", args[0], "out", out, "quad", q, "interpolation", interp.String())
			printf(cmd, "%s (%dx%d)\n", out, b.Dx(), b.Dy())
			return nil
		},
	}
	cmd.Flags().StringVar(&corners, "corners", "", `page corners "x,y x,y x,y x,y" (TL TR BR BL); default is the full image`)
	cmd.Flags().BoolVar(&nearest, "nearest", false, "use nearest-neighbour sampling instead of "+config.InterpolationBilinear)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <name>_cropped.<ext>)")
	return cmd
}
