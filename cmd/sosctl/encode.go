package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/52North/SOS-sub013/internal/catalog"
	"github.com/52North/SOS-sub013/internal/gml"
	"github.com/52North/SOS-sub013/internal/sensorml"
	"github.com/52North/SOS-sub013/internal/sos"
	"github.com/52North/SOS-sub013/internal/sosjson"
)

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:    "encode",
		Aliases: []string{"e"},
		Usage:   "Encode an operation response for the catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "capabilities",
				Usage: "Encode the capabilities document",
				Flags: []cli.Flag{
					newPrettyFlag(),
					&cli.StringSliceFlag{Name: sectionsFlag, Usage: "Sections to include"},
				},
				Action: encodeAction(func(c *cli.Context) (sos.Request, error) {
					return &sos.GetCapabilitiesRequest{Sections: c.StringSlice(sectionsFlag)}, nil
				}),
			},
			{
				Name:  "observations",
				Usage: "Encode the observations matching the filters",
				Flags: []cli.Flag{
					newPrettyFlag(),
					&cli.StringSliceFlag{Name: offeringFlag},
					&cli.StringSliceFlag{Name: procedureFlag},
					&cli.StringSliceFlag{Name: propertyFlag},
					&cli.StringSliceFlag{Name: featureFlag},
					&cli.StringFlag{Name: temporalFlag, Usage: "ISO-8601 instant or start/end period"},
				},
				Action: encodeAction(observationsRequest),
			},
			{
				Name:  "sensor",
				Usage: "Encode the description of a procedure",
				Flags: []cli.Flag{
					newPrettyFlag(),
					&cli.StringFlag{Name: procedureFlag, Required: true},
					&cli.StringFlag{Name: validTimeFlag, Usage: "ISO-8601 instant or start/end period"},
				},
				Action: encodeAction(sensorRequest),
			},
			{
				Name:  "template",
				Usage: "Encode the result template of an offering and observed property",
				Flags: []cli.Flag{
					newPrettyFlag(),
					&cli.StringFlag{Name: offeringFlag, Required: true},
					&cli.StringFlag{Name: propertyFlag, Required: true},
				},
				Action: encodeAction(func(c *cli.Context) (sos.Request, error) {
					return &sos.GetResultTemplateRequest{
						Version:          sos.Version200,
						Offering:         c.String(offeringFlag),
						ObservedProperty: c.String(propertyFlag),
					}, nil
				}),
			},
		},
	}
}

func newPrettyFlag() cli.Flag {
	return &cli.BoolFlag{Name: prettyFlag, Aliases: []string{"p"}, Usage: "Indent the output"}
}

func observationsRequest(c *cli.Context) (sos.Request, error) {
	req := &sos.GetObservationRequest{
		Version:            sos.Version200,
		Offerings:          c.StringSlice(offeringFlag),
		Procedures:         c.StringSlice(procedureFlag),
		ObservedProperties: c.StringSlice(propertyFlag),
		FeaturesOfInterest: c.StringSlice(featureFlag),
	}
	if s := c.String(temporalFlag); s != "" {
		t, err := gml.ParseTime(s)
		if err != nil {
			return nil, err
		}
		start, end := t.Bounds()
		req.TemporalFilter = &gml.TimePeriod{Start: start, End: end}
	}
	return req, nil
}

func sensorRequest(c *cli.Context) (sos.Request, error) {
	req := &sos.DescribeSensorRequest{
		Version:                    sos.Version200,
		Procedure:                  c.String(procedureFlag),
		ProcedureDescriptionFormat: sensorml.Format,
	}
	if s := c.String(validTimeFlag); s != "" {
		t, err := gml.ParseTime(s)
		if err != nil {
			return nil, err
		}
		req.ValidTime = t
	}
	return req, nil
}

// encodeAction runs the request built by build against the catalog and
// writes the JSON response.
func encodeAction(build func(*cli.Context) (sos.Request, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx := c.Context

		cat, err := catalog.Load(c.String(catalogFlag))
		if err != nil {
			return err
		}
		service := sos.NewService(cat)
		encoder := sosjson.NewEncoder()

		env, err := openSettings(ctx, c.String(settingsFlag))
		if err != nil {
			return err
		}
		defer env.close()
		if err := env.bind(ctx, service, encoder); err != nil {
			return err
		}
		if c.Bool(prettyFlag) {
			_ = encoder.SetPrettyPrint(true)
		}

		req, err := build(c)
		if err != nil {
			return err
		}
		resp, err := service.Handle(ctx, req)
		if err != nil {
			return err
		}
		obj, err := encoder.EncodeResponse(resp)
		if err != nil {
			return err
		}
		data, err := encoder.Marshal(obj)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.App.Writer, string(data))
		return err
	}
}
