// Package streamflex provides an embedded Go client for the streamflex title
// catalog, backed by MongoDB, Redis or an in-process store.
//
//	client, _ := streamflex.New(ctx,
//	    streamflex.WithMongo("mongodb://localhost:27017", "StreamFlex"),
//	)
//	defer client.Close()
//
//	_, _ = client.Titles().Add(ctx, streamflex.NewTitle{
//	    Title: "Harbor Lights", Kind: streamflex.KindSeries, Rating: 9.2,
//	    Genres: []string{"Drama"},
//	})
//
//	titles, _ := client.Titles().Find().
//	    Kind(streamflex.KindSeries).
//	    GenreContains("drama").
//	    MinRating(8).
//	    Do(ctx)
package streamflex
