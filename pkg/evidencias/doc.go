// Package evidencias builds per-client evidence packages for collections
// campaigns. It joins a primary client list with management records, SMS
// records and a call-recording index, and writes one folder per client with
// the spreadsheets and audio that prove each outreach channel was executed.
//
// Quick start:
//
//	e, err := evidencias.New(evidencias.WithProgress(func(ev evidencias.Event) {
//	    fmt.Printf("[%d/%d] %s\n", ev.Current, ev.Total, ev.Message)
//	}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Close()
//
//	summary, err := e.Run(ctx, evidencias.Inputs{
//	    Primary:      "datos_fuente.xlsx",
//	    Management:   "nuevos_datos.xlsx",
//	    SMS:          "sms.xlsx",
//	    Consolidated: "consolidados.xlsx",
//	    IVRAudio:     "ivr.mp3",
//	    OutputDir:    "salida",
//	    Container:    "EVIDENCIAS_ENERO",
//	})
//
// Front ends that must stay responsive use Start, which runs on a background
// goroutine and exposes the progress events as a channel.
package evidencias
