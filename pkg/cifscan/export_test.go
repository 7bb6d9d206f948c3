package cifscan

var IsCif = isCif
