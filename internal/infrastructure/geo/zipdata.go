package geo

// centroid is the geographic center of a ZIP code area.
type centroid struct {
	Lat float64
	Lon float64
}

// zipCentroids is a static ZIP-centroid table covering the metro areas the
// catalog currently serves. Distances stay correct without any network
// call; a geocoding provider can be layered behind the same Resolver
// interface if coverage ever needs to grow.
var zipCentroids = map[string]centroid{
	// Manhattan
	"10001": {40.7506, -73.9971},
	"10002": {40.7157, -73.9861},
	"10003": {40.7317, -73.9891},
	"10005": {40.7061, -74.0087},
	"10011": {40.7420, -74.0005},
	"10012": {40.7255, -73.9983},
	"10013": {40.7200, -74.0050},
	"10014": {40.7339, -74.0054},
	"10016": {40.7453, -73.9783},
	"10019": {40.7656, -73.9853},
	"10021": {40.7693, -73.9587},
	"10025": {40.7987, -73.9666},
	"10028": {40.7765, -73.9535},
	"10128": {40.7815, -73.9509},
	// Outer boroughs
	"10301": {40.6314, -74.0942},
	"10451": {40.8202, -73.9253},
	"11101": {40.7472, -73.9389},
	"11201": {40.6945, -73.9903},
	"11211": {40.7123, -73.9531},
	"11215": {40.6625, -73.9867},
	"11217": {40.6825, -73.9790},
	"11238": {40.6795, -73.9638},
	"11354": {40.7680, -73.8275},
	"11375": {40.7209, -73.8458},
	// New Jersey
	"07030": {40.7453, -74.0279},
	"07102": {40.7357, -74.1724},
	"07302": {40.7221, -74.0466},
	// Northeast
	"02108": {42.3577, -71.0656},
	"02139": {42.3647, -71.1042},
	"06510": {41.3064, -72.9260},
	"19103": {39.9525, -75.1735},
	"20001": {38.9109, -77.0163},
	"21201": {39.2946, -76.6252},
	// Southeast
	"28202": {35.2272, -80.8432},
	"30303": {33.7525, -84.3900},
	"32801": {28.5421, -81.3731},
	"33130": {25.7677, -80.2056},
	"37203": {36.1503, -86.7889},
	// Midwest
	"43215": {39.9671, -83.0044},
	"48226": {42.3316, -83.0500},
	"53202": {43.0445, -87.9008},
	"55401": {44.9833, -93.2719},
	"60601": {41.8858, -87.6229},
	"60614": {41.9227, -87.6533},
	"63101": {38.6319, -90.1926},
	// South / Southwest
	"73102": {35.4700, -97.5199},
	"75201": {32.7876, -96.7994},
	"77002": {29.7563, -95.3656},
	"78701": {30.2708, -97.7426},
	"85004": {33.4512, -112.0705},
	// Mountain / West
	"80202": {39.7516, -104.9987},
	"84101": {40.7558, -111.8987},
	"89101": {36.1716, -115.1223},
	"90012": {34.0614, -118.2385},
	"90210": {34.0901, -118.4065},
	"94103": {37.7726, -122.4099},
	"94110": {37.7486, -122.4159},
	"97201": {45.5082, -122.6880},
	"98101": {47.6101, -122.3344},
}
