package main

import "aco-go/pkg/chart"

// Average solve times in milliseconds for each graph size.
var numOfNodes = []float64{8, 12, 16, 20}

var results = []chart.Series{
	{Label: "Sequential", Values: []float64{1696, 3042, 4736, 6807}},
	{Label: "2 threads", Values: []float64{981, 1779, 2777, 3983}},
	{Label: "4 threads", Values: []float64{620, 1100, 1683, 2378}},
	{Label: "6 threads", Values: []float64{513, 890, 1341, 1910}},
	{Label: "8 threads", Values: []float64{488, 803, 1201, 1687}},
}

func resultsDataset() chart.Dataset {
	return chart.Dataset{X: numOfNodes, Series: results}
}

func plotResults(path string) error {
	return chart.Render(resultsDataset(), path)
}
